package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type planCmd struct {
	in     string
	cash   cashFlag
	asJSON bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "compute the operations to rebalance the portfolio" }
func (*planCmd) Usage() string {
	return `rb plan [-in <assets.json>] [-cash <amount>] [-json]

  Computes the buy and sell operations that bring every asset back to its
  target percentage, after an optional cash deposit (positive amount) or
  withdrawal (negative amount).

  The assets are read from the saved snapshot, or from a JSON file holding
  either an array of assets or a snapshot document.

Usage Examples:
# Plan the saved portfolio with a deposit of 500.
$ rb plan -cash 500

`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "JSON file to read the assets from, - for the standard input. Defaults to the saved snapshot.")
	f.Var(&c.cash, "cash", "cash to deposit (positive) or withdraw (negative) before rebalancing")
	f.BoolVar(&c.asJSON, "json", false, "print the operations as JSON")
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	if err := c.run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error computing the plan: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *planCmd) run(ctx context.Context, w io.Writer) error {
	assets, err := readAssets(ctx, c.in)
	if err != nil {
		return err
	}
	plan := rebalance.Evaluate(assets, float64(c.cash))
	log.Info().Stringer("status", plan.Status).Int("sells", plan.Sells()).Int("buys", plan.Buys()).Msg("plan computed")

	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan.Operations)
	}
	printMarkdown(w, renderer.Markdown(renderer.NewReport(assets, plan, cfg.Currency)))
	return nil
}
