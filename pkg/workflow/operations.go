package workflow

import (
	"fmt"
	"log/slog"

	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
	"github.com/all4-dev/gradle-release-plugin/pkg/version"
)

// BumpPre advances the stored version to the next pre-release and
// commits the descriptor. No tag is created. Each call advances the
// ordinal by exactly one because the current version is re-read from
// disk every time.
func (w *Workflow) BumpPre(opts Options) (string, error) {
	if err := w.git.EnsureClean(); err != nil {
		return "", err
	}

	meta, err := w.readMeta()
	if err != nil {
		return "", err
	}

	next, err := version.NextPreRelease(meta.Version)
	if err != nil {
		return "", err
	}

	slog.Info("bumping pre-release version", "current", meta.Version, "next", next)

	if opts.DryRun {
		slog.Info("dry-run: would write descriptor and commit", "version", next)
		return next, nil
	}

	if err := w.store.WriteVersion(next); err != nil {
		return "", err
	}

	files, err := w.commitFiles()
	if err != nil {
		return "", err
	}
	if err := w.git.Commit(files, fmt.Sprintf("chore: bump version to %s", next)); err != nil {
		return "", err
	}

	return next, nil
}

// PublishTo publishes to one destination by name. Outside dry-run the
// required secrets are resolved first and a report entry is printed
// afterwards.
func (w *Workflow) PublishTo(name string, opts Options) error {
	dest, ok := publish.ByName(name)
	if !ok {
		return fmt.Errorf("unknown destination %q (valid: local, portal, central)", name)
	}

	if err := w.publishTo(dest, opts); err != nil {
		return err
	}
	if opts.DryRun {
		return nil
	}

	meta, err := w.readMeta()
	if err != nil {
		return err
	}
	return w.writeReport([]publish.Destination{dest}, meta)
}
