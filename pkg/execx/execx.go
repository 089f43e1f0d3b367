package execx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     map[string]string // appended to the current environment
}

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr concatenated, trimmed.
func (r *Result) Combined() string {
	return strings.TrimSpace(r.Stdout + r.Stderr)
}

// Runner executes external commands. Gateways depend on this interface
// so tests can substitute a fake instead of spawning real processes.
type Runner interface {
	Run(cmd Command) (*Result, error)
	Available(program string) bool
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewRunner creates an ExecRunner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Available reports whether program can be found in PATH.
func (e *ExecRunner) Available(program string) bool {
	_, err := exec.LookPath(program)
	return err == nil
}

// Run executes the command synchronously and captures stdout/stderr.
// A nonzero exit is not an error here; callers inspect Result.ExitCode
// so they can fold the captured output into their own failure message.
func (e *ExecRunner) Run(cmd Command) (*Result, error) {
	// Programs given as paths (./gradlew) resolve relative to cmd.Dir at
	// exec time; only bare names go through PATH.
	if !strings.Contains(cmd.Program, string(os.PathSeparator)) {
		if _, err := exec.LookPath(cmd.Program); err != nil {
			return nil, fmt.Errorf("%s binary not found in PATH: %w", cmd.Program, err)
		}
	}

	c := exec.Command(cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = os.Environ()
		for k, v := range cmd.Env {
			c.Env = append(c.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("running %s: %w", cmd.Program, err)
	}

	return result, nil
}

// String renders the command line for logging. Environment variables are
// listed by name only; values never appear.
func (c Command) String() string {
	var b strings.Builder
	for _, k := range sortedKeys(c.Env) {
		b.WriteString(k)
		b.WriteString("=*** ")
	}
	b.WriteString(c.Program)
	for _, a := range c.Args {
		b.WriteString(" ")
		b.WriteString(a)
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
