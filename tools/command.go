package tools

import (
	"context"
	"os/exec"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/wardenhq/warden/errors"
)

// RunShellCommandTool runs a command as a subprocess inheriting the current
// working directory. Output is combined stdout+stderr, bounded by
// MaxOutputChars.
type RunShellCommandTool struct{}

func (t *RunShellCommandTool) Name() string { return ActionRunShellCommand }

func (t *RunShellCommandTool) Description() string {
	return "Executes a shell command in the current working directory and returns its combined output. Args: command (string)."
}

func (t *RunShellCommandTool) Parameters() []Param {
	return []Param{
		{Name: "command", Description: "The shell command to execute."},
	}
}

func (t *RunShellCommandTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	command, err := stringArg(args, "command")
	if err != nil {
		return "", err
	}

	// Shell-style word splitting so quoted arguments survive.
	argv, err := shellwords.Parse(command)
	if err != nil {
		return "", errors.Wrapf(err, "could not parse command '%s'", command)
	}
	if len(argv) == 0 {
		return "", errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Non-zero exit and spawn failure both surface as an error carrying
		// the failure message, never as a silent empty success.
		return "", errors.Wrapf(err, "command execution failed. Output:\n%s", truncateOutput(string(output)))
	}

	return truncateOutput(string(output)), nil
}
