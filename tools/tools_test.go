package tools

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wardenhq/warden/config"
)

func testRegistry() *Registry {
	return NewRegistry(&config.FilesystemAccess{})
}

func TestRegistryFixedSet(t *testing.T) {
	r := testRegistry()

	for _, name := range []string{ActionRunShellCommand, ActionWriteFile, ActionReadFile} {
		tool, err := r.Get(name)
		if err != nil {
			t.Errorf("Get(%s): %v", name, err)
		}
		if tool.Name() != name {
			t.Errorf("tool name mismatch: %s != %s", tool.Name(), name)
		}
	}

	if got := len(r.All()); got != 3 {
		t.Errorf("expected 3 tools, got %d", got)
	}
}

func TestRegistryUnknownAction(t *testing.T) {
	r := testRegistry()
	_, err := r.Get("delete_everything")
	if err == nil {
		t.Fatal("expected an error for an unknown action")
	}
	if !stderrors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestTruncateOutputLaw(t *testing.T) {
	short := strings.Repeat("a", MaxOutputChars)
	if got := truncateOutput(short); got != short {
		t.Error("output at the bound must pass through untouched")
	}

	long := strings.Repeat("a", MaxOutputChars+500)
	got := truncateOutput(long)
	if len(got) != MaxOutputChars+len(TruncationMarker) {
		t.Errorf("expected length %d, got %d", MaxOutputChars+len(TruncationMarker), len(got))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Error("marker must be appended")
	}
	if strings.Count(got, TruncationMarker) != 1 {
		t.Error("marker must appear exactly once")
	}
}

func TestRunShellCommand(t *testing.T) {
	tool := &RunShellCommandTool{}
	ctx := context.Background()

	out, err := tool.Execute(ctx, map[string]interface{}{"command": `echo "hello world"`})
	if err != nil {
		t.Fatalf("echo failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello world" {
		t.Errorf("unexpected output: %q", out)
	}

	// Non-zero exit is an error carrying the failure, not a silent success.
	if _, err := tool.Execute(ctx, map[string]interface{}{"command": "false"}); err == nil {
		t.Error("expected an error for a failing command")
	}

	// Spawn failure.
	if _, err := tool.Execute(ctx, map[string]interface{}{"command": "definitely-not-a-binary-xyz"}); err == nil {
		t.Error("expected an error for an unknown binary")
	}

	// Missing argument.
	if _, err := tool.Execute(ctx, map[string]interface{}{}); err == nil {
		t.Error("expected an error for a missing command argument")
	}
}

func TestRunShellCommandTruncation(t *testing.T) {
	tool := &RunShellCommandTool{}
	out, err := tool.Execute(context.Background(), map[string]interface{}{
		"command": "seq 1 2000",
	})
	if err != nil {
		t.Fatalf("seq failed: %v", err)
	}
	if len(out) != MaxOutputChars+len(TruncationMarker) {
		t.Errorf("expected length %d, got %d", MaxOutputChars+len(TruncationMarker), len(out))
	}
	if strings.Count(out, TruncationMarker) != 1 {
		t.Error("marker must appear exactly once")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "nested", "note.txt")
	fs := &config.FilesystemAccess{}
	write := &WriteFileTool{fsAccess: fs}
	read := &ReadFileTool{fsAccess: fs}
	ctx := context.Background()

	content := "line one\nline two\n"
	result, err := write.Execute(ctx, map[string]interface{}{"path": path, "content": content})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(result, path) {
		t.Errorf("write result should report the path: %q", result)
	}

	first, err := read.Execute(ctx, map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if first != content {
		t.Errorf("read mismatch: %q", first)
	}

	// write same content, read again: the round-trip law.
	if _, err := write.Execute(ctx, map[string]interface{}{"path": path, "content": first}); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	second, err := read.Execute(ctx, map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if second != first {
		t.Errorf("round trip broke: %q != %q", second, first)
	}
}

func TestReadFileMissing(t *testing.T) {
	read := &ReadFileTool{fsAccess: &config.FilesystemAccess{}}
	_, err := read.Execute(context.Background(), map[string]interface{}{
		"path": filepath.Join(t.TempDir(), "absent.txt"),
	})
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFilesystemRestrictions(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secrets", "key.pem")
	if err := os.MkdirAll(filepath.Dir(secret), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(secret, []byte("shh"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := &config.FilesystemAccess{
		Hidden:   []string{filepath.Join(dir, "secrets", "**")},
		ReadOnly: []string{filepath.Join(dir, "frozen.txt")},
	}
	read := &ReadFileTool{fsAccess: fs}
	write := &WriteFileTool{fsAccess: fs}
	ctx := context.Background()

	if _, err := read.Execute(ctx, map[string]interface{}{"path": secret}); err == nil {
		t.Error("hidden path must not be readable")
	}
	if _, err := write.Execute(ctx, map[string]interface{}{
		"path": filepath.Join(dir, "frozen.txt"), "content": "x",
	}); err == nil {
		t.Error("read-only path must not be writable")
	}
}
