// Package workflow composes the release engine: version policy,
// descriptor store, and the git/vault/build-tool gateways, sequenced as
// named operations with fail-fast and dry-run semantics. The
// orchestrator owns all state transitions; no component keeps mutable
// state across invocations, and the descriptor is re-read from disk
// before every version computation.
package workflow

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/all4-dev/gradle-release-plugin/pkg/config"
	"github.com/all4-dev/gradle-release-plugin/pkg/descriptor"
	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
	"github.com/all4-dev/gradle-release-plugin/pkg/report"
)

// Options configures one workflow invocation. Immutable once built;
// every step consults only what the caller passed in.
type Options struct {
	DryRun      bool
	NoPush      bool
	SkipPublish bool
	Version     string // explicit stable-release target
}

// VcsGateway is the narrow git surface the workflow needs.
type VcsGateway interface {
	ToolAvailable() bool
	EnsureClean() error
	Commit(files []string, message string) error
	Tag(name, message string) error
	Push(remote string, refs ...string) error
	LastTag() (string, error)
	Subjects(sinceTag string) ([]string, error)
}

// SecretResolver resolves vault references to plaintext.
type SecretResolver interface {
	ToolAvailable() bool
	Read(ref string) (string, error)
}

// PublishGateway runs the build tool's publish tasks.
type PublishGateway interface {
	ToolAvailable() bool
	Publish(dest publish.Destination, secrets map[string]string, dryRun bool) error
}

// Workflow is the release orchestrator.
type Workflow struct {
	cfg       *config.Config
	store     *descriptor.Store
	git       VcsGateway
	secrets   SecretResolver
	publisher PublishGateway
	home      string
	out       io.Writer
}

// New creates a Workflow. home is the user home directory, used only
// for report locations; out receives doctor output and publish reports.
func New(cfg *config.Config, store *descriptor.Store, git VcsGateway, secrets SecretResolver, publisher PublishGateway, home string, out io.Writer) *Workflow {
	return &Workflow{
		cfg:       cfg,
		store:     store,
		git:       git,
		secrets:   secrets,
		publisher: publisher,
		home:      home,
		out:       out,
	}
}

// readMeta reads a fresh metadata snapshot. Never cache the result
// across a descriptor write: the stored version is the only truth.
func (w *Workflow) readMeta() (descriptor.Metadata, error) {
	return w.store.ReadMetadata()
}

// resolveSecrets resolves every configured secret for dest, verifying
// the mapping is structurally complete first.
func (w *Workflow) resolveSecrets(dest publish.Destination) (map[string]string, error) {
	if err := w.cfg.HasSecretsFor(dest); err != nil {
		return nil, err
	}
	resolved := make(map[string]string)
	for key, ref := range w.cfg.Secrets[dest.Name] {
		value, err := w.secrets.Read(ref)
		if err != nil {
			return nil, fmt.Errorf("resolving %s for destination %s: %w", key, dest.Name, err)
		}
		resolved[key] = value
	}
	return resolved, nil
}

// publishTo publishes one destination honoring dry-run. In dry-run mode
// secrets are not resolved; masked placeholders stand in so the echoed
// command still lists the variables it would set.
func (w *Workflow) publishTo(dest publish.Destination, opts Options) error {
	if opts.DryRun {
		placeholders := make(map[string]string, len(dest.RequiredSecrets))
		for _, key := range dest.RequiredSecrets {
			placeholders[key] = "***"
		}
		return w.publisher.Publish(dest, placeholders, true)
	}

	resolved, err := w.resolveSecrets(dest)
	if err != nil {
		return err
	}
	return w.publisher.Publish(dest, resolved, false)
}

// commitFiles lists the files staged with a release commit: the
// descriptor, any extras the config's glob patterns match, and any
// additional paths the caller appends.
func (w *Workflow) commitFiles(extra ...string) ([]string, error) {
	files := []string{w.cfg.Descriptor}
	files = append(files, extra...)

	fsys := os.DirFS(w.cfg.Dir)
	for _, pattern := range w.cfg.Commit.ExtraFiles {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := fs.Stat(fsys, m)
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", m, err)
			}
			if !info.IsDir() {
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// reportParams builds report parameters for the given metadata.
func (w *Workflow) reportParams(meta descriptor.Metadata) report.Params {
	return report.Params{
		Meta:        meta,
		Artifact:    w.cfg.Artifact,
		Home:        w.home,
		LocalCache:  w.cfg.URLs.LocalCache,
		PortalBase:  w.cfg.URLs.Portal,
		CentralBase: w.cfg.URLs.Central,
	}
}

// writeReport renders and prints the publish report.
func (w *Workflow) writeReport(dests []publish.Destination, meta descriptor.Metadata) error {
	text, err := report.Render(dests, w.reportParams(meta))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w.out, text)
	return err
}
