// Package changelog renders a markdown changelog section from commit
// subjects. Rendering is pure; only Prepend touches the filesystem.
package changelog

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

const sectionTemplate = `## {{ .Version }} ({{ .Date | date "2006-01-02" }})

{{ if .Subjects -}}
{{ range .Subjects -}}
- {{ . }}
{{ end -}}
{{ else -}}
- No changes recorded.
{{ end -}}
`

var tmpl = template.Must(template.New("section").Funcs(sprig.FuncMap()).Parse(sectionTemplate))

// Section is one release's changelog entry.
type Section struct {
	Version  string
	Date     time.Time
	Subjects []string // commit subjects, newest first
}

// Render formats the section as markdown.
func Render(s Section) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("rendering changelog section: %w", err)
	}
	return buf.String(), nil
}

// Prepend inserts section text at the top of the changelog file,
// creating the file when absent. The previous content follows after a
// blank line.
func Prepend(path, section string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading changelog %s: %w", path, err)
	}

	var buf bytes.Buffer
	buf.WriteString(section)
	if len(existing) > 0 {
		buf.WriteString("\n")
		buf.Write(existing)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing changelog %s: %w", path, err)
	}
	return nil
}
