// Package publish invokes the build tool's publish tasks for each
// destination. Secrets travel as process environment only: never on
// the command line, never on disk, never in logs.
package publish

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/all4-dev/gradle-release-plugin/pkg/execx"
)

// ErrFailed reports a publish task that exited nonzero.
var ErrFailed = errors.New("publish failed")

// ErrMissingSecret reports a required secret absent from the resolved set.
var ErrMissingSecret = errors.New("missing secret")

// Gateway runs the build tool in a fixed project directory.
type Gateway struct {
	runner  execx.Runner
	dir     string
	program string // build tool invocation, e.g. ./gradlew
}

// NewGateway creates a Gateway running program (usually ./gradlew) in dir.
func NewGateway(runner execx.Runner, dir, program string) *Gateway {
	return &Gateway{runner: runner, dir: dir, program: program}
}

// ToolAvailable reports whether the build tool can be invoked. Wrapper
// paths are checked relative to the project directory.
func (g *Gateway) ToolAvailable() bool {
	if strings.Contains(g.program, string(os.PathSeparator)) {
		_, err := os.Stat(filepath.Join(g.dir, g.program))
		return err == nil
	}
	return g.runner.Available(g.program)
}

// Publish runs the destination's tasks with secrets injected as
// environment variables. In dry-run mode the command line is logged
// with every secret masked and nothing is executed.
func (g *Gateway) Publish(dest Destination, secrets map[string]string, dryRun bool) error {
	for _, key := range dest.RequiredSecrets {
		if _, ok := secrets[key]; !ok {
			return fmt.Errorf("%w: destination %s needs %s", ErrMissingSecret, dest.Name, key)
		}
	}

	cmd := execx.Command{
		Program: g.program,
		Args:    dest.Tasks,
		Dir:     g.dir,
		Env:     secrets,
	}

	if dryRun {
		// Command.String masks env values as ***.
		slog.Info("dry-run: would publish", "destination", dest.Name, "command", cmd.String())
		return nil
	}

	slog.Info("publishing", "destination", dest.Name, "tasks", strings.Join(dest.Tasks, " "))
	result, err := g.runner.Run(cmd)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFailed, dest.Name, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: %s:\n%s", ErrFailed, dest.Name, result.Combined())
	}
	return nil
}
