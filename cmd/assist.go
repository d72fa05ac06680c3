package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI advisor" }
func (*assistCmd) Usage() string {
	return `rb assist [<question>]

  Starts an interactive session with the AI advisor. The advisor reads the
  saved snapshot and the documentation, it never changes the portfolio.
  Type 'bye' to leave.

  Requires GEMINI_API_KEY or GOOGLE_API_KEY in the environment. The model is
  set by RB_MODEL.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	source := func(ctx context.Context) (rebalance.Assets, error) { return readAssets(ctx, "") }
	advisor := agent.NewAdvisor(cfg.Model, source, cfg.Currency)
	analyst := agent.NewAnalyst(cfg.Model)
	advisor.Log, analyst.Log = log, log

	a := agent.New(os.Stdout, os.Stdin, log, cfg.Model, advisor, analyst)
	a.Print = printMarkdown
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
