// Package vcs wraps the git operations a release needs as synchronous
// external-process calls. Failures abort immediately and leave the
// repository exactly as git left it; recovery is manual.
package vcs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/all4-dev/gradle-release-plugin/pkg/execx"
)

const gitProgram = "git"

// ErrDirtyWorkingTree reports uncommitted changes in the working tree.
var ErrDirtyWorkingTree = errors.New("working tree is dirty")

// ErrCommandFailed reports a git invocation that exited nonzero.
var ErrCommandFailed = errors.New("git command failed")

// Gateway runs git in a fixed repository directory.
type Gateway struct {
	runner execx.Runner
	dir    string
}

// New creates a Gateway for the repository at dir.
func New(runner execx.Runner, dir string) *Gateway {
	return &Gateway{runner: runner, dir: dir}
}

// ToolAvailable reports whether git is installed.
func (g *Gateway) ToolAvailable() bool {
	return g.runner.Available(gitProgram)
}

// EnsureClean fails when the status query reports anything at all.
// Every mutating workflow requires this: committing on top of unrelated
// local changes would corrupt the release commit's diff.
func (g *Gateway) EnsureClean() error {
	result, err := g.git("status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(result.Stdout) != "" {
		return fmt.Errorf("%w, commit or stash changes first:\n%s", ErrDirtyWorkingTree, strings.TrimRight(result.Stdout, "\n"))
	}
	return nil
}

// Commit stages the given files and creates one commit.
func (g *Gateway) Commit(files []string, message string) error {
	if _, err := g.git(append([]string{"add", "--"}, files...)...); err != nil {
		return err
	}
	_, err := g.git("commit", "-m", message)
	return err
}

// Tag creates an annotated tag.
func (g *Gateway) Tag(name, message string) error {
	_, err := g.git("tag", "-a", name, "-m", message)
	return err
}

// Push pushes the given refs to remote.
func (g *Gateway) Push(remote string, refs ...string) error {
	_, err := g.git(append([]string{"push", remote}, refs...)...)
	return err
}

// LastTag returns the most recent reachable tag, or "" when the
// repository has none.
func (g *Gateway) LastTag() (string, error) {
	result, err := g.runWithDir("describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		// No tag reachable from HEAD.
		return "", nil
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Subjects lists commit subjects from sinceTag (exclusive) to HEAD,
// newest first. An empty sinceTag lists the whole history.
func (g *Gateway) Subjects(sinceTag string) ([]string, error) {
	args := []string{"log", "--pretty=format:%s"}
	if sinceTag != "" {
		args = append(args, sinceTag+"..HEAD")
	}
	result, err := g.git(args...)
	if err != nil {
		return nil, err
	}
	var subjects []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects, nil
}

// git runs one git command and converts a nonzero exit into
// ErrCommandFailed carrying the command line and its output.
func (g *Gateway) git(args ...string) (*execx.Result, error) {
	result, err := g.runWithDir(args...)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("%w: git %s:\n%s", ErrCommandFailed, strings.Join(args, " "), result.Combined())
	}
	return result, nil
}

func (g *Gateway) runWithDir(args ...string) (*execx.Result, error) {
	return g.runner.Run(execx.Command{Program: gitProgram, Args: args, Dir: g.dir})
}
