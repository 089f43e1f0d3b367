package vault

import (
	"errors"
	"strings"
	"testing"

	"github.com/all4-dev/gradle-release-plugin/pkg/execx"
)

func TestValidateRef(t *testing.T) {
	valid := []string{
		"op://Private/gradle-portal/key",
		"op://Private/sonatype/credentials/password",
	}
	for _, ref := range valid {
		if err := ValidateRef(ref); err != nil {
			t.Errorf("ValidateRef(%q): %v", ref, err)
		}
	}

	invalid := []string{
		"",
		"vault/item/field",
		"op://onlyvault",
		"op://vault/item",
		"op://vault//field",
		"op://a/b/c/d/e",
	}
	for _, ref := range invalid {
		if err := ValidateRef(ref); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("ValidateRef(%q) error = %v, want ErrInvalidRef", ref, err)
		}
	}
}

func TestRead_Success(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{Stdout: "hunter2\n"}, nil)

	r := NewResolver(f)
	got, err := r.Read("op://Private/portal/key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("Read = %q, want hunter2", got)
	}

	call := f.Calls[0]
	if call.Program != CLIName || len(call.Args) != 2 || call.Args[0] != "read" {
		t.Errorf("unexpected invocation: %+v", call)
	}
}

func TestRead_SurfacesCLIDiagnostics(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{ExitCode: 1, Stderr: "[ERROR] you are not currently signed in"}, nil)

	r := NewResolver(f)
	_, err := r.Read("op://Private/portal/key")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("error = %v, want ErrUnreadable", err)
	}
	if !strings.Contains(err.Error(), "not currently signed in") {
		t.Errorf("error should carry CLI diagnostics verbatim: %v", err)
	}
	if !strings.Contains(err.Error(), "op signin") {
		t.Errorf("error should suggest signing in: %v", err)
	}
}

func TestRead_InvalidRefFailsBeforeCLI(t *testing.T) {
	f := execx.NewFakeRunner()
	r := NewResolver(f)
	_, err := r.Read("not-a-ref")
	if !errors.Is(err, ErrInvalidRef) {
		t.Fatalf("error = %v, want ErrInvalidRef", err)
	}
	if len(f.Calls) != 0 {
		t.Errorf("CLI was invoked %d times for an invalid ref", len(f.Calls))
	}
}

func TestToolAvailable(t *testing.T) {
	f := execx.NewFakeRunner()
	r := NewResolver(f)
	if !r.ToolAvailable() {
		t.Error("expected tool available with clean fake")
	}

	f2 := execx.NewFakeRunner()
	f2.Missing[CLIName] = true
	if NewResolver(f2).ToolAvailable() {
		t.Error("expected tool unavailable when binary is missing")
	}
}
