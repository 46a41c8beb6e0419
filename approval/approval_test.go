package approval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wardenhq/warden/session"
)

func TestMatchFailClosed(t *testing.T) {
	cases := []struct {
		input string
		want  Decision
	}{
		{"y", Approve},
		{"Y", Approve},
		{"Y ", Approve}, // trim-then-match, deterministic
		{" y\t", Approve},
		{"skip", Skip},
		{"SKIP", Skip},
		{" Skip ", Skip},
		{"yes", Deny}, // no approve synonyms
		{"n", Deny},
		{"", Deny},
		{"approve", Deny},
		{"y y", Deny},
	}
	for _, tc := range cases {
		if got := Match(tc.input); got != tc.want {
			t.Errorf("Match(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestAskReadsOneLine(t *testing.T) {
	in := strings.NewReader("y\nskip\nnope\n")
	var out bytes.Buffer
	gate := NewGate(in, &out)
	call := session.ToolCall{Name: "run_shell_command", Args: map[string]interface{}{"command": "ls"}}

	for i, want := range []Decision{Approve, Skip, Deny} {
		got, err := gate.Ask(call)
		if err != nil {
			t.Fatalf("Ask %d: %v", i, err)
		}
		if got != want {
			t.Errorf("Ask %d = %s, want %s", i, got, want)
		}
	}
}

func TestAskEOFDenies(t *testing.T) {
	gate := NewGate(strings.NewReader(""), &bytes.Buffer{})
	got, err := gate.Ask(session.ToolCall{Name: "read_file"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != Deny {
		t.Errorf("EOF should deny, got %s", got)
	}
}

func TestAskRendersActionAndTruncatesArgs(t *testing.T) {
	in := strings.NewReader("y\n")
	var out bytes.Buffer
	gate := NewGate(in, &out)

	huge := strings.Repeat("x", 500)
	call := session.ToolCall{
		Name: "write_file",
		Args: map[string]interface{}{"path": "a.txt", "content": huge},
	}
	if _, err := gate.Ask(call); err != nil {
		t.Fatal(err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "[AI Action Request] write_file") {
		t.Errorf("missing request header: %q", rendered)
	}
	if !strings.Contains(rendered, "a.txt") {
		t.Errorf("missing path argument: %q", rendered)
	}
	if strings.Contains(rendered, huge) {
		t.Error("displayed argument was not truncated")
	}
	if !strings.Contains(rendered, huge[:displayArgLimit]+"...") {
		t.Error("truncated argument missing its ellipsis marker")
	}
	// The call itself is untouched.
	if call.Args["content"].(string) != huge {
		t.Error("argument handed to the executor must stay untruncated")
	}
}
