package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type exportCmd struct {
	in     string
	out    string
	title  string
	cash   cashFlag
	format string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the rebalance report to a file" }
func (*exportCmd) Usage() string {
	return `rb export -o <report.html> [-format html|md] [-in <assets.json>] [-cash <amount>]

  Writes the same report as 'rb plan' to a file, as a standalone HTML page or
  as markdown. Use -o - to write to the standard output.

`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "output file, - for the standard output")
	f.StringVar(&c.format, "format", "html", "output format: html or md")
	f.StringVar(&c.title, "title", "Portfolio Rebalance", "title of the HTML page")
	f.StringVar(&c.in, "in", "", "JSON file to read the assets from. Defaults to the saved snapshot.")
	f.Var(&c.cash, "cash", "cash to deposit (positive) or withdraw (negative) before rebalancing")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments %q\n", f.Args())
		return subcommands.ExitUsageError
	}
	if c.out == "" {
		fmt.Fprintln(os.Stderr, "Error: the output file -o is required")
		return subcommands.ExitUsageError
	}
	if c.format != "html" && c.format != "md" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q, want html or md\n", c.format)
		return subcommands.ExitUsageError
	}
	if err := c.run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting the report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// run renders the report, then writes it to the -o file, or to stdout for
// "-". Nothing is written when rendering fails.
func (c *exportCmd) run(ctx context.Context, stdout io.Writer) error {
	page, err := c.render(ctx)
	if err != nil {
		return err
	}
	if c.out == "-" {
		_, err := io.WriteString(stdout, page)
		return err
	}
	return os.WriteFile(c.out, []byte(page), 0o644)
}

func (c *exportCmd) render(ctx context.Context) (string, error) {
	assets, err := readAssets(ctx, c.in)
	if err != nil {
		return "", err
	}
	md := renderer.Markdown(renderer.NewReport(assets, rebalance.Evaluate(assets, float64(c.cash)), cfg.Currency))
	if c.format == "md" {
		return md, nil
	}
	return renderer.HTML(c.title, md)
}
