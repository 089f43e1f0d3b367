package vcs

import (
	"errors"
	"strings"
	"testing"

	"github.com/all4-dev/gradle-release-plugin/pkg/execx"
)

func TestEnsureClean_CleanTree(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{Stdout: ""}, nil)

	g := New(f, "/repo")
	if err := g.EnsureClean(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := f.Calls[0]
	if call.Dir != "/repo" {
		t.Errorf("dir = %q, want /repo", call.Dir)
	}
	if strings.Join(call.Args, " ") != "status --porcelain" {
		t.Errorf("args = %v", call.Args)
	}
}

func TestEnsureClean_DirtyTree(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{Stdout: " M build.gradle.kts\n?? scratch.txt\n"}, nil)

	err := New(f, ".").EnsureClean()
	if !errors.Is(err, ErrDirtyWorkingTree) {
		t.Fatalf("error = %v, want ErrDirtyWorkingTree", err)
	}
	if !strings.Contains(err.Error(), "commit or stash changes first") {
		t.Errorf("error should name the remediation: %v", err)
	}
	if !strings.Contains(err.Error(), "scratch.txt") {
		t.Errorf("error should list the dirty paths: %v", err)
	}
}

func TestCommit_StagesThenCommits(t *testing.T) {
	f := execx.NewFakeRunner()
	g := New(f, ".")
	if err := g.Commit([]string{"build.gradle.kts", "CHANGELOG.md"}, "release: v1.0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Calls) != 2 {
		t.Fatalf("got %d git calls, want 2", len(f.Calls))
	}
	if strings.Join(f.Calls[0].Args, " ") != "add -- build.gradle.kts CHANGELOG.md" {
		t.Errorf("add args = %v", f.Calls[0].Args)
	}
	if strings.Join(f.Calls[1].Args, " ") != "commit -m release: v1.0.0" {
		t.Errorf("commit args = %v", f.Calls[1].Args)
	}
}

func TestCommit_FailureCarriesOutput(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{}, nil) // add succeeds
	f.Script(execx.Result{ExitCode: 1, Stderr: "nothing to commit"}, nil)

	err := New(f, ".").Commit([]string{"a"}, "msg")
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("error = %v, want ErrCommandFailed", err)
	}
	if !strings.Contains(err.Error(), "nothing to commit") {
		t.Errorf("error should carry git output: %v", err)
	}
	if !strings.Contains(err.Error(), "git commit") {
		t.Errorf("error should name the failing command: %v", err)
	}
}

func TestTagAndPush(t *testing.T) {
	f := execx.NewFakeRunner()
	g := New(f, ".")

	if err := g.Tag("v1.0.0", "release 1.0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Push("origin", "HEAD", "v1.0.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(f.Calls[0].Args, " ") != "tag -a v1.0.0 -m release 1.0.0" {
		t.Errorf("tag args = %v", f.Calls[0].Args)
	}
	if strings.Join(f.Calls[1].Args, " ") != "push origin HEAD v1.0.0" {
		t.Errorf("push args = %v", f.Calls[1].Args)
	}
}

func TestLastTag_NoTags(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{ExitCode: 128, Stderr: "fatal: No names found"}, nil)

	tag, err := New(f, ".").LastTag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag != "" {
		t.Errorf("tag = %q, want empty", tag)
	}
}

func TestSubjects_SinceTag(t *testing.T) {
	f := execx.NewFakeRunner()
	f.Script(execx.Result{Stdout: "fix: descriptor write check\nfeat: doctor command\n"}, nil)

	subjects, err := New(f, ".").Subjects("v0.1.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("got %d subjects, want 2", len(subjects))
	}
	if !strings.Contains(strings.Join(f.Calls[0].Args, " "), "v0.1.0..HEAD") {
		t.Errorf("log args = %v", f.Calls[0].Args)
	}
}
