package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

type saveCmd struct {
	in   string
	cash cashFlag
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "save the rebalanced portfolio as the snapshot" }
func (*saveCmd) Usage() string {
	return `rb save [-in <assets.json>] [-cash <amount>]

  Computes the operations like 'rb plan' does, applies them, and saves the
  resulting assets as the new snapshot. The saved quantities are the ones
  you hold once the operations are executed.

  The target percentages must sum to 100%.

Usage Examples:
# Start a portfolio from a list of assets.
$ rb save -in assets.json

# Record that 500 were invested according to the plan.
$ rb save -cash 500

`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "JSON file to read the assets from, - for the standard input. Defaults to the saved snapshot.")
	f.Var(&c.cash, "cash", "cash to deposit (positive) or withdraw (negative) before rebalancing")
}

func (c *saveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.run(ctx, os.Stdout, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving the portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *saveCmd) run(ctx context.Context, w io.Writer, now time.Time) error {
	assets, err := readAssets(ctx, c.in)
	if err != nil {
		return err
	}
	p := rebalance.NewPortfolio(assets)
	p.SetCashAdjustment(float64(c.cash))
	if plan := p.Plan(); plan.Status == rebalance.Empty || plan.Status == rebalance.NotRebalanceable {
		return errors.New(plan.Reason)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s := p.Snapshot(now)
	if err := st.Save(ctx, s); err != nil {
		return err
	}
	log.Info().Str("store", cfg.Store).Int("assets", len(s.Assets)).Msg("snapshot saved")
	fmt.Fprintf(w, "Saved %d assets to %s.\n", len(s.Assets), cfg.Store)
	return nil
}
