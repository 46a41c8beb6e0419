// Package agent drives the conversational tool-call loop: send a turn to
// the model, gate each requested action through the human operator,
// execute approved actions, feed every result back, and repeat until the
// model answers with plain text.
package agent

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/wardenhq/warden/approval"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/errors"
	"github.com/wardenhq/warden/llm"
	"github.com/wardenhq/warden/session"
	"github.com/wardenhq/warden/tools"
)

// Result texts reported to the model when an action did not execute. The
// two causes differ only in wording; control flow treats them alike.
const (
	DeniedMessage  = "User denied permission"
	SkippedMessage = "User explicitly skipped this action"
)

// ErrLoopExhausted reports that the model kept requesting actions past the
// configured turn budget. The loop never runs unbounded.
var ErrLoopExhausted = stderrors.New("conversation exceeded maximum turns")

// Approver is the human-in-the-loop checkpoint. It blocks until the
// operator decides; nothing else runs while it waits.
type Approver interface {
	Ask(call session.ToolCall) (approval.Decision, error)
}

// Agent owns the conversation state for one invocation and orchestrates
// the loop. Nothing outside the agent mutates the transcript.
type Agent struct {
	client   llm.Client
	registry *tools.Registry
	gate     Approver
	session  *session.Session
	maxTurns int
	out      io.Writer
}

// New builds an agent. maxTurns <= 0 selects the default bound.
func New(client llm.Client, registry *tools.Registry, gate Approver, sess *session.Session, maxTurns int) *Agent {
	if maxTurns <= 0 {
		maxTurns = config.DefaultMaxTurns
	}
	return &Agent{
		client:   client,
		registry: registry,
		gate:     gate,
		session:  sess,
		maxTurns: maxTurns,
		out:      io.Discard,
	}
}

// SetOutput directs inline notes about action outcomes (execution
// failures, denials, skips) to w. The default discards them.
func (a *Agent) SetOutput(w io.Writer) {
	a.out = w
}

// Session exposes the transcript for inspection after the run.
func (a *Agent) Session() *session.Session {
	return a.session
}

// RunConversation sends the initial user message and loops until the model
// produces a final text answer, which it returns. Only transport failure,
// an unknown action name, a broken operator input stream, or turn
// exhaustion abort the run; failed actions are reported back to the model
// as error results and the loop continues.
func (a *Agent) RunConversation(ctx context.Context, initialUserMessage string) (string, error) {
	a.session.AddMessage(session.Message{Role: "user", Content: initialUserMessage})

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.client.Chat(ctx, a.session.Messages, a.registry.All())
		if err != nil {
			return "", errors.Wrapf(err, "transport failure")
		}
		a.session.AddMessage(*resp)

		// A turn with no requested actions is the sole terminal state.
		if !resp.Pending() {
			return resp.Content, nil
		}

		// The model may request several actions in one turn; they run
		// strictly in the order received. Each needs a blocking human
		// decision, and shell/file effects may depend on earlier ones.
		results, err := a.processToolCalls(ctx, resp.ToolCalls)
		if err != nil {
			return "", err
		}
		for _, r := range results {
			a.session.AddMessage(r)
		}
	}

	return "", errors.Wrapf(ErrLoopExhausted, "after %d turns", a.maxTurns)
}

// processToolCalls gates and executes one turn's batch, producing exactly
// one result per request in request order.
func (a *Agent) processToolCalls(ctx context.Context, calls []session.ToolCall) ([]session.Message, error) {
	results := make([]session.Message, 0, len(calls))
	for _, call := range calls {
		// Resolve before prompting: an unknown action is a contract
		// violation by the producer and fails the run, not the action.
		tool, err := a.registry.Get(call.Name)
		if err != nil {
			return nil, err
		}

		decision, err := a.gate.Ask(call)
		if err != nil {
			return nil, errors.Wrapf(err, "operator input failed")
		}

		var text string
		switch decision {
		case approval.Approve:
			out, execErr := tool.Execute(ctx, call.Args)
			if execErr != nil {
				text = fmt.Sprintf("Error: %v", execErr)
				fmt.Fprintf(a.out, "Action %s failed: %v\n", call.Name, execErr)
			} else {
				text = out
			}
		case approval.Skip:
			text = SkippedMessage
			fmt.Fprintf(a.out, "Skipped %s.\n", call.Name)
		default:
			text = DeniedMessage
			fmt.Fprintf(a.out, "Denied %s.\n", call.Name)
		}

		results = append(results, session.Message{
			Role:      "tool",
			Content:   text,
			ToolCalls: []session.ToolCall{call},
		})
	}
	return results, nil
}
