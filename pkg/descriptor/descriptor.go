// Package descriptor reads and writes the authoritative release
// metadata inside a Gradle Kotlin-DSL build descriptor. The file is
// treated as a tiny single-record store accessed through exact-match
// patterns; all pattern text lives in this package so a format change
// is a one-place fix.
package descriptor

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// DefaultFile is the descriptor name looked up in the project root.
const DefaultFile = "build.gradle.kts"

// ErrFieldMissing reports a declaration the descriptor must carry but
// does not.
var ErrFieldMissing = errors.New("descriptor field missing")

// ErrWriteFailed reports a version substitution that changed nothing,
// which would otherwise let a publish ship the wrong version silently.
var ErrWriteFailed = errors.New("descriptor write failed")

// Field patterns. group and version are top-level declarations; the
// plugin id is the first id declaration inside the gradlePlugin block,
// recognized by its indentation.
var (
	versionPattern  = regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`)
	groupPattern    = regexp.MustCompile(`(?m)^group\s*=\s*"([^"]+)"`)
	pluginIDPattern = regexp.MustCompile(`(?m)^\s+id\s*=\s*"([^"]+)"`)
)

// fieldSpecs drives ReadMetadata and its error messages.
var fieldSpecs = []struct {
	name    string
	pattern *regexp.Regexp
	example string
}{
	{"version", versionPattern, `version = "X.Y.Z"`},
	{"group", groupPattern, `group = "reverse.dns.id"`},
	{"plugin id", pluginIDPattern, `id = "plugin.id" (inside the gradlePlugin block)`},
}

// Metadata is the (group, version, plugin id) snapshot read from the
// descriptor. It goes stale the moment the version is written back;
// callers re-read rather than reuse it across a bump.
type Metadata struct {
	Group    string
	Version  string
	PluginID string
}

// Store accesses one descriptor file.
type Store struct {
	path string
}

// NewStore creates a Store for the given descriptor file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the descriptor file path.
func (s *Store) Path() string { return s.path }

// ReadMetadata scans the descriptor for the three declarations. A
// missing declaration fails naming the field and the expected line, as
// that message is the user's primary self-diagnosis surface.
func (s *Store) ReadMetadata() (Metadata, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Metadata{}, fmt.Errorf("reading descriptor %s: %w", s.path, err)
	}

	values := make([]string, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		m := spec.pattern.FindSubmatch(data)
		if m == nil {
			return Metadata{}, fmt.Errorf("%w: no %s declaration in %s, expected a line like %s",
				ErrFieldMissing, spec.name, s.path, spec.example)
		}
		values[i] = string(m[1])
	}

	return Metadata{Version: values[0], Group: values[1], PluginID: values[2]}, nil
}

// WriteVersion replaces the version declaration with newVersion. The
// whole file is rewritten in one pass; the substitution is verified
// both against the old text and by reading the file back.
func (s *Store) WriteVersion(newVersion string) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading descriptor %s: %w", s.path, err)
	}

	replaced := versionPattern.ReplaceAll(data, []byte(fmt.Sprintf("version = %q", newVersion)))
	if string(replaced) == string(data) {
		return fmt.Errorf("%w: substituting version %q in %s changed nothing, expected a line like version = \"X.Y.Z\"",
			ErrWriteFailed, newVersion, s.path)
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return fmt.Errorf("stat descriptor %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, replaced, info.Mode()); err != nil {
		return fmt.Errorf("writing descriptor %s: %w", s.path, err)
	}

	meta, err := s.ReadMetadata()
	if err != nil {
		return fmt.Errorf("verifying descriptor after write: %w", err)
	}
	if meta.Version != newVersion {
		return fmt.Errorf("%w: descriptor reads back version %q after writing %q",
			ErrWriteFailed, meta.Version, newVersion)
	}
	return nil
}
