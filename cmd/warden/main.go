package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/wardenhq/warden/agent"
	"github.com/wardenhq/warden/approval"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/llm"
	"github.com/wardenhq/warden/persona"
	"github.com/wardenhq/warden/session"
	"github.com/wardenhq/warden/tools"
)

var answerStyle = lipgloss.NewStyle().Bold(true)

func main() {
	// All cleanup runs through run's defers on every exit path.
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("warden", flag.ExitOnError)
	modelFlag := fs.String("m", "", "Model alias from the configuration")
	contextFlag := fs.String("c", "", "Context/persona document name")
	maxTurnsFlag := fs.Int("max-turns", 0, "Maximum conversation turns before giving up (0 = config default)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: warden [-m <model_alias>] [-c <context_name>] [-max-turns <n>] <prompt...>")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		// An empty prompt is a request for help, not an error.
		fs.Usage()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load configuration (%v), using built-in defaults.\n", err)
		cfg = config.Default()
	}

	model, ok := cfg.ResolveModel(*modelFlag)
	if !ok && *modelFlag != "" {
		fmt.Fprintf(os.Stderr, "Warning: unknown model alias '%s', falling back to '%s'.\n", *modelFlag, cfg.DefaultModel)
	}

	ctx := context.Background()
	client, err := newClient(ctx, model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s client: %+v\n", model.Provider, err)
		return 1
	}

	// Persona document plus the environment snapshot, captured once before
	// the loop starts.
	systemPrompt := persona.Compose(persona.Load(*contextFlag, os.Stderr), time.Now())

	maxTurns := cfg.MaxTurns
	if *maxTurnsFlag > 0 {
		maxTurns = *maxTurnsFlag
	}

	registry := tools.NewRegistry(&cfg.FilesystemAccess)
	gate := approval.NewGate(os.Stdin, os.Stdout)
	warden := agent.New(client, registry, gate, session.New(systemPrompt), maxTurns)
	warden.SetOutput(os.Stdout)

	finalText, err := warden.RunConversation(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warden: fatal: %+v\n", err)
		return 1
	}

	fmt.Println(answerStyle.Render(finalText))
	return 0
}

// newClient selects the provider client for a resolved model. An
// unrecognized provider gets the deterministic mock, with a warning, so a
// bare installation still answers.
func newClient(ctx context.Context, model config.Model) (llm.Client, error) {
	switch model.Provider {
	case "anthropic":
		return llm.NewAnthropicClient(ctx, model.Model)
	case "openai":
		return llm.NewOpenAIClient(ctx, model.Model)
	case "gemini":
		return llm.NewGeminiClient(ctx, model.Model)
	case "bedrock":
		return llm.NewBedrockClient(ctx, model.Model)
	default:
		fmt.Fprintf(os.Stderr, "Warning: unknown provider '%s', using the mock client.\n", model.Provider)
		return &llm.MockClient{}, nil
	}
}
