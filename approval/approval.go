// Package approval implements the human-in-the-loop checkpoint gating
// every side-effecting action the model requests.
package approval

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wardenhq/warden/session"
)

// Decision is the operator's answer for one pending action.
type Decision int

const (
	// Deny is the zero value: unrecognized input fails closed.
	Deny Decision = iota
	Approve
	Skip
)

func (d Decision) String() string {
	switch d {
	case Approve:
		return "approve"
	case Skip:
		return "skip"
	default:
		return "deny"
	}
}

// displayArgLimit bounds each argument value in the prompt so large
// payloads (e.g. full file contents) stay legible. The value handed to the
// executor is never truncated.
const displayArgLimit = 150

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	argStyle    = lipgloss.NewStyle().Faint(true)
)

// Gate asks a human operator to approve, deny or skip one action at a
// time. The read is synchronous and blocks the whole loop until a line of
// input arrives.
type Gate struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewGate builds a gate reading operator answers from in and rendering
// prompts to out.
func NewGate(in io.Reader, out io.Writer) *Gate {
	return &Gate{scanner: bufio.NewScanner(in), out: out}
}

// Ask renders the pending action and reads one line of operator input.
// After trimming surrounding whitespace and lowering case, "y" approves and
// "skip" skips; anything else — including empty input and EOF — denies.
func (g *Gate) Ask(call session.ToolCall) (Decision, error) {
	fmt.Fprintln(g.out, headerStyle.Render(fmt.Sprintf("[AI Action Request] %s", call.Name)))
	for _, line := range renderArgs(call.Args) {
		fmt.Fprintln(g.out, argStyle.Render(line))
	}
	fmt.Fprint(g.out, "Allow? (y = approve, skip = skip, anything else = deny): ")

	if !g.scanner.Scan() {
		if err := g.scanner.Err(); err != nil {
			return Deny, err
		}
		// EOF: the operator is gone, fail closed.
		return Deny, nil
	}
	return Match(g.scanner.Text()), nil
}

// Match maps one line of operator input to a decision.
func Match(input string) Decision {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y":
		return Approve
	case "skip":
		return Skip
	default:
		return Deny
	}
}

func renderArgs(args map[string]interface{}) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, truncateForDisplay(fmt.Sprintf("%v", args[k]))))
	}
	return lines
}

func truncateForDisplay(s string) string {
	if len(s) <= displayArgLimit {
		return s
	}
	return s[:displayArgLimit] + "..."
}
