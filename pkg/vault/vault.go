// Package vault resolves secret references through the 1Password CLI.
// Resolution is a hard external dependency: nothing is cached, nothing
// is retried, and a single failure aborts the calling workflow step.
package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/all4-dev/gradle-release-plugin/pkg/execx"
)

// CLIName is the vault CLI binary the resolver shells out to.
const CLIName = "op"

// RefPrefix is the scheme every secret reference must carry.
const RefPrefix = "op://"

// ErrToolMissing reports an unavailable vault CLI.
var ErrToolMissing = errors.New("vault CLI not available")

// ErrInvalidRef reports a malformed secret reference.
var ErrInvalidRef = errors.New("invalid secret reference")

// ErrUnreadable reports a reference the CLI could not resolve. The
// CLI's own diagnostics are carried verbatim: not being signed in,
// wrong item casing, and a missing item are indistinguishable without
// them.
var ErrUnreadable = errors.New("secret unreadable")

// ValidateRef checks the op://vault/item[/section]/field shape without
// touching the CLI.
func ValidateRef(ref string) error {
	if !strings.HasPrefix(ref, RefPrefix) {
		return fmt.Errorf("%w: %q must start with %s", ErrInvalidRef, ref, RefPrefix)
	}
	parts := strings.Split(strings.TrimPrefix(ref, RefPrefix), "/")
	if len(parts) < 3 || len(parts) > 4 {
		return fmt.Errorf("%w: %q must be %svault/item[/section]/field", ErrInvalidRef, ref, RefPrefix)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q has an empty path segment", ErrInvalidRef, ref)
		}
	}
	return nil
}

// Resolver reads secrets via the vault CLI.
type Resolver struct {
	runner execx.Runner
}

// NewResolver creates a Resolver using the given process runner.
func NewResolver(runner execx.Runner) *Resolver {
	return &Resolver{runner: runner}
}

// ToolAvailable reports whether the vault CLI responds to its version
// command.
func (r *Resolver) ToolAvailable() bool {
	if !r.runner.Available(CLIName) {
		return false
	}
	result, err := r.runner.Run(execx.Command{Program: CLIName, Args: []string{"--version"}})
	return err == nil && result.ExitCode == 0
}

// Read resolves ref to its plaintext value.
func (r *Resolver) Read(ref string) (string, error) {
	if err := ValidateRef(ref); err != nil {
		return "", err
	}

	result, err := r.runner.Run(execx.Command{Program: CLIName, Args: []string{"read", ref}})
	if err != nil {
		return "", fmt.Errorf("%w: %s (is the %s CLI installed?)", ErrToolMissing, err, CLIName)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%w: %s: %s (try `%s signin`)", ErrUnreadable, ref, result.Combined(), CLIName)
	}

	return strings.TrimRight(result.Stdout, "\n"), nil
}
