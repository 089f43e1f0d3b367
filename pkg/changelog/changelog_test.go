package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testDate = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestRender(t *testing.T) {
	got, err := Render(Section{
		Version:  "1.2.0",
		Date:     testDate,
		Subjects: []string{"feat: doctor command", "fix: descriptor write check"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "## 1.2.0 (2026-03-14)") {
		t.Errorf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "- feat: doctor command\n") {
		t.Errorf("missing subject line:\n%s", got)
	}
	if !strings.Contains(got, "- fix: descriptor write check\n") {
		t.Errorf("missing subject line:\n%s", got)
	}
}

func TestRender_NoSubjects(t *testing.T) {
	got, err := Render(Section{Version: "1.0.0", Date: testDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "No changes recorded") {
		t.Errorf("empty section should say so:\n%s", got)
	}
}

func TestPrepend_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	if err := Prepend(path, "## 1.0.0 (2026-03-14)\n\n- initial\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "## 1.0.0") {
		t.Errorf("unexpected content:\n%s", data)
	}
}

func TestPrepend_NewSectionComesFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	if err := os.WriteFile(path, []byte("## 0.9.0 (2026-01-01)\n\n- old\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Prepend(path, "## 1.0.0 (2026-03-14)\n\n- new\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Index(text, "## 1.0.0") > strings.Index(text, "## 0.9.0") {
		t.Errorf("new section should precede old:\n%s", text)
	}
	if !strings.Contains(text, "- old") {
		t.Errorf("old content lost:\n%s", text)
	}
}
