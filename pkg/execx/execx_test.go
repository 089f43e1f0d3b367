package execx

import (
	"strings"
	"testing"
)

func TestRun_CapturesStdout(t *testing.T) {
	r := NewRunner()
	result, err := r.Run(Command{Program: "sh", Args: []string{"-c", "echo hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("stdout = %q, want hello", result.Stdout)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
}

func TestRun_NonzeroExitIsNotAnError(t *testing.T) {
	r := NewRunner()
	result, err := r.Run(Command{Program: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "oops") {
		t.Errorf("stderr = %q, want it to contain oops", result.Stderr)
	}
}

func TestRun_MissingProgram(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(Command{Program: "definitely-not-a-real-binary-xyz"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCommandString_MasksEnvValues(t *testing.T) {
	cmd := Command{
		Program: "gradlew",
		Args:    []string{"publishPlugins"},
		Env:     map[string]string{"GRADLE_PUBLISH_KEY": "supersecret"},
	}
	s := cmd.String()
	if strings.Contains(s, "supersecret") {
		t.Fatalf("command string leaked secret: %s", s)
	}
	if !strings.Contains(s, "GRADLE_PUBLISH_KEY=***") {
		t.Errorf("command string should list masked env var, got: %s", s)
	}
	if !strings.Contains(s, "gradlew publishPlugins") {
		t.Errorf("command string should contain program and args, got: %s", s)
	}
}

func TestFakeRunner_ScriptedResponses(t *testing.T) {
	f := NewFakeRunner()
	f.Script(Result{Stdout: "first"}, nil)
	f.Script(Result{ExitCode: 1, Stderr: "bad"}, nil)

	r1, err := f.Run(Command{Program: "git", Args: []string{"status"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Stdout != "first" {
		t.Errorf("stdout = %q, want first", r1.Stdout)
	}

	r2, _ := f.Run(Command{Program: "git"})
	if r2.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", r2.ExitCode)
	}

	if len(f.Calls) != 2 {
		t.Errorf("recorded %d calls, want 2", len(f.Calls))
	}
}
