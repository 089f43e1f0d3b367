package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/all4-dev/gradle-release-plugin/pkg/changelog"
	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
	"github.com/all4-dev/gradle-release-plugin/pkg/version"
)

// TagAndPublishPreRelease runs the full pre-release flow: clean check,
// doctor, version computation, descriptor and changelog update,
// commit+tag, publish to portal then central, push, report.
func (w *Workflow) TagAndPublishPreRelease(opts Options) error {
	if err := w.git.EnsureClean(); err != nil {
		return err
	}
	if err := w.doctor(opts.DryRun); err != nil {
		return err
	}

	meta, err := w.readMeta()
	if err != nil {
		return err
	}
	next, err := version.NextPreRelease(meta.Version)
	if err != nil {
		return err
	}

	return w.release(opts, next)
}

// TagAndPublishRelease runs the full stable-release flow for the
// explicit target version. The target is validated, and rejected when
// it equals the stored version, before any git command runs.
func (w *Workflow) TagAndPublishRelease(opts Options) error {
	if opts.Version == "" {
		return errors.New("a stable release needs an explicit target, pass --version x.y.z")
	}
	if err := version.ValidateStable(opts.Version); err != nil {
		return err
	}

	meta, err := w.readMeta()
	if err != nil {
		return err
	}
	if meta.Version == opts.Version {
		return fmt.Errorf("version is already %s, pick a higher target", opts.Version)
	}

	if err := w.git.EnsureClean(); err != nil {
		return err
	}
	if err := w.doctor(opts.DryRun); err != nil {
		return err
	}

	return w.release(opts, opts.Version)
}

// release drives the shared tail of both full flows. Failure at any
// step aborts the remaining steps with no rollback of completed ones:
// if publishing fails after commit+tag, the tag stays as the durable
// record of intent and completion is manual.
func (w *Workflow) release(opts Options, next string) error {
	tagName := w.cfg.TagPrefix + next
	slog.Info("starting release", "version", next, "tag", tagName, "dryRun", opts.DryRun)

	lastTag, err := w.git.LastTag()
	if err != nil {
		return err
	}
	subjects, err := w.git.Subjects(lastTag)
	if err != nil {
		return err
	}
	section, err := changelog.Render(changelog.Section{
		Version:  next,
		Date:     time.Now(),
		Subjects: subjects,
	})
	if err != nil {
		return err
	}

	if opts.DryRun {
		slog.Info("dry-run: would write descriptor", "version", next)
		slog.Info("dry-run: would update changelog", "file", w.cfg.Changelog.File, "entries", len(subjects))
		slog.Info("dry-run: would commit and tag", "tag", tagName)
	} else {
		if err := w.store.WriteVersion(next); err != nil {
			return err
		}
		if err := changelog.Prepend(filepath.Join(w.cfg.Dir, w.cfg.Changelog.File), section); err != nil {
			return err
		}
		files, err := w.commitFiles(w.cfg.Changelog.File)
		if err != nil {
			return err
		}
		if err := w.git.Commit(files, "release: "+tagName); err != nil {
			return err
		}
		if err := w.git.Tag(tagName, fmt.Sprintf("Release %s\n\n%s", next, section)); err != nil {
			return err
		}
	}

	var published []publish.Destination
	if opts.SkipPublish {
		slog.Info("skipping publish")
	} else {
		// Ordered and fail-fast: a portal failure must abort before
		// central is attempted.
		for _, dest := range publish.Remote() {
			if err := w.publishTo(dest, opts); err != nil {
				return err
			}
			published = append(published, dest)
		}
	}

	switch {
	case opts.NoPush:
		slog.Info("skipping push", "remote", w.cfg.Remote)
	case opts.DryRun:
		slog.Info("dry-run: would push", "remote", w.cfg.Remote, "refs", []string{"HEAD", tagName})
	default:
		if err := w.git.Push(w.cfg.Remote, "HEAD", tagName); err != nil {
			return err
		}
	}

	// The report reflects the released version. Outside dry-run the
	// descriptor is re-read rather than trusted.
	reportMeta, err := w.readMeta()
	if err != nil {
		return err
	}
	if opts.DryRun {
		reportMeta.Version = next
	}
	return w.writeReport(published, reportMeta)
}
