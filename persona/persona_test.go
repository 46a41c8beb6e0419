package persona

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdir moves the test into a fresh directory so project-level context
// lookups are hermetic.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func writeContext(t *testing.T, dir, name, text string) {
	t.Helper()
	ctxDir := filepath.Join(dir, ".warden", "contexts")
	if err := os.MkdirAll(ctxDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(ctxDir, name+".md"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadNamedContext(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeContext(t, dir, "reviewer", "You review code.")

	var warn bytes.Buffer
	got := Load("reviewer", &warn)
	if got != "You review code." {
		t.Errorf("unexpected persona: %q", got)
	}
	if warn.Len() != 0 {
		t.Errorf("no warning expected, got %q", warn.String())
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeContext(t, dir, "default", "Default persona.")

	var warn bytes.Buffer
	got := Load("missing", &warn)
	if got != "Default persona." {
		t.Errorf("unexpected persona: %q", got)
	}
	if !strings.Contains(warn.String(), "'missing' not found") {
		t.Errorf("expected a fallback warning, got %q", warn.String())
	}
}

func TestLoadFallsBackToBuiltin(t *testing.T) {
	chdir(t, t.TempDir())
	// Point HOME somewhere empty so the user-level lookup misses too.
	t.Setenv("HOME", t.TempDir())

	var warn bytes.Buffer
	got := Load("missing", &warn)
	if got != fallbackPersona {
		t.Errorf("expected the built-in persona, got %q", got)
	}
	// One warning per fallback step.
	if strings.Count(warn.String(), "Warning:") != 2 {
		t.Errorf("expected two warnings, got %q", warn.String())
	}
}

func TestSnapshotContents(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	snap := Snapshot(now)
	for _, want := range []string{"Working directory:", "a.txt", "sub/", "Date: 2026-08-23"} {
		if !strings.Contains(snap, want) {
			t.Errorf("snapshot missing %q:\n%s", want, snap)
		}
	}
}

func TestComposeAppendsSnapshotOnce(t *testing.T) {
	chdir(t, t.TempDir())
	got := Compose("Persona text.", time.Now())
	if !strings.HasPrefix(got, "Persona text.\n\n## Environment") {
		t.Errorf("unexpected composition:\n%s", got)
	}
}
