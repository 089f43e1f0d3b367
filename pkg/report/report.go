// Package report renders the human-readable summary printed after a
// publish: where each artifact landed and copy-paste dependency
// snippets in both Gradle and Maven syntax. Pure formatting, no side
// effects.
package report

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/all4-dev/gradle-release-plugin/pkg/descriptor"
	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
)

const reportTemplate = `Published {{ .Meta.Version }}:

{{ range .Entries -}}
  {{ printf "%-8s" .Name }} {{ .Location }}
{{ end }}
Gradle (Kotlin DSL):

    plugins {
        id("{{ .Meta.PluginID }}") version "{{ .Meta.Version }}"
    }

Maven:

    <dependency>
      <groupId>{{ .Meta.Group }}</groupId>
      <artifactId>{{ .Artifact }}</artifactId>
      <version>{{ .Meta.Version }}</version>
    </dependency>
`

var tmpl = template.Must(template.New("report").Funcs(sprig.FuncMap()).Parse(reportTemplate))

// Params carries everything rendering needs; the report never consults
// ambient state beyond what the caller passes in.
type Params struct {
	Meta        descriptor.Metadata
	Artifact    string
	Home        string // user home directory, for the local cache path
	LocalCache  string // cache dir relative to Home
	PortalBase  string
	CentralBase string
}

type entry struct {
	Name     string
	Location string
}

// Location computes the destination's path or URL for the given
// metadata, following the repository layout conventions.
func Location(dest publish.Destination, p Params) string {
	groupPath := strings.ReplaceAll(p.Meta.Group, ".", "/")
	switch dest.Name {
	case publish.Local.Name:
		return filepath.Join(p.Home, filepath.FromSlash(p.LocalCache), filepath.FromSlash(groupPath), p.Artifact, p.Meta.Version)
	case publish.Portal.Name:
		return p.PortalBase + "/" + p.Meta.PluginID
	case publish.Central.Name:
		return p.CentralBase + "/" + path.Join(groupPath, p.Artifact, p.Meta.Version) + "/"
	default:
		return ""
	}
}

// Render formats the summary for the given destinations. An empty
// destination list renders nothing.
func Render(dests []publish.Destination, p Params) (string, error) {
	if len(dests) == 0 {
		return "", nil
	}

	entries := make([]entry, 0, len(dests))
	for _, d := range dests {
		entries = append(entries, entry{Name: d.Name, Location: Location(d, p)})
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Meta     descriptor.Metadata
		Artifact string
		Entries  []entry
	}{Meta: p.Meta, Artifact: p.Artifact, Entries: entries})
	if err != nil {
		return "", fmt.Errorf("rendering publish report: %w", err)
	}
	return buf.String(), nil
}
