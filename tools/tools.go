package tools

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/errors"
)

// Action names the model may request. The set is fixed and closed; any
// other name is a contract violation by the producer and fails fast.
const (
	ActionRunShellCommand = "run_shell_command"
	ActionWriteFile       = "write_file"
	ActionReadFile        = "read_file"
)

// ErrUnknownAction marks a requested action name outside the fixed set.
var ErrUnknownAction = stderrors.New("unknown action")

// Output bound for shell command results. Anything beyond the bound is cut
// and the marker is appended exactly once, so the model is always told
// truncation occurred.
const (
	MaxOutputChars   = 2000
	TruncationMarker = "\n... [output truncated]"
)

// Param describes one tool argument. All arguments are strings.
type Param struct {
	Name        string
	Description string
}

// Tool defines the interface for any action the agent can take.
type Tool interface {
	Name() string
	Description() string
	Parameters() []Param
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// Registry holds the fixed tool set.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds the registry with exactly the three warden tools.
func NewRegistry(fsAccess *config.FilesystemAccess) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	r.register(&RunShellCommandTool{})
	r.register(&WriteFileTool{fsAccess: fsAccess})
	r.register(&ReadFileTool{fsAccess: fsAccess})
	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
}

// Get returns the tool for an action name, or an error wrapping
// ErrUnknownAction when the name is outside the fixed set.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAction, "no tool registered for action '%s'", name)
	}
	return t, nil
}

// All returns the tools in registration order, for transport declarations.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// truncateOutput bounds a result at MaxOutputChars, appending the marker
// once. A result at or under the bound passes through untouched.
func truncateOutput(s string) string {
	if len(s) <= MaxOutputChars {
		return s
	}
	return s[:MaxOutputChars] + TruncationMarker
}

// stringArg extracts a required string argument.
func stringArg(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok {
		return "", errors.New("missing or invalid '%s' argument", key)
	}
	return v, nil
}

// isPathRestricted checks if a path matches any of the glob patterns.
func isPathRestricted(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		match, err := doublestar.PathMatch(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}
