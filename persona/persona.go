// Package persona loads the context document that seeds the model's
// behavior and builds the one-shot environment snapshot appended to it.
package persona

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// fallbackPersona is the last resort when no context document exists.
const fallbackPersona = "You are Warden, a careful command-line assistant. " +
	"Use the available tools when a request needs local actions, ask for nothing " +
	"the tools cannot provide, and keep answers concise."

// Load returns the persona text for the named context. Fallback chain:
// named document, then "default", then the built-in persona, with a
// warning written to warn on each step taken.
func Load(name string, warn io.Writer) string {
	if name != "" && name != "default" {
		if text, ok := readContext(name); ok {
			return text
		}
		fmt.Fprintf(warn, "Warning: context '%s' not found, falling back to 'default'.\n", name)
	}
	if text, ok := readContext("default"); ok {
		return text
	}
	fmt.Fprintln(warn, "Warning: context 'default' not found, using the built-in persona.")
	return fallbackPersona
}

// readContext looks for <name>.md in the project-level contexts directory
// first, then the user-level one.
func readContext(name string) (string, bool) {
	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, ".warden", "contexts", name+".md"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".warden", "contexts", name+".md"))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(data))
		if text != "" {
			return text, true
		}
	}
	return "", false
}

// Snapshot renders the environment block: working directory, a shallow
// one-line directory listing, platform and date. It is captured once
// before the loop starts and never recomputed mid-conversation, so
// transcripts stay reproducible.
func Snapshot(now time.Time) string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "(unknown)"
	}

	var b strings.Builder
	b.WriteString("## Environment\n")
	fmt.Fprintf(&b, "Working directory: %s\n", wd)
	fmt.Fprintf(&b, "Directory listing: %s\n", listDirectory(wd))
	fmt.Fprintf(&b, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "Date: %s", now.Format("2006-01-02"))
	return b.String()
}

// Compose joins the persona document and the environment snapshot into the
// system prompt for one run.
func Compose(personaText string, now time.Time) string {
	return personaText + "\n\n" + Snapshot(now)
}

// listDirectory builds a one-line shallow listing. Directories get a
// trailing slash; long listings are cut so the prompt stays small.
func listDirectory(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "(unreadable)"
	}
	if len(entries) == 0 {
		return "(empty)"
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	const maxEntries = 100
	if len(names) > maxEntries {
		names = append(names[:maxEntries], fmt.Sprintf("... (%d more)", len(names)-maxEntries))
	}
	return strings.Join(names, ", ")
}
