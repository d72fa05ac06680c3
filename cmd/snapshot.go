package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type snapshotCmd struct {
	query string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "show the saved snapshot" }
func (*snapshotCmd) Usage() string {
	return `rb snapshot [-q <jsonpath>]

  Shows the saved snapshot: its date and assets.

  With -q, evaluates a JSONPath expression over the snapshot document and
  prints the result as JSON. See 'rb topic snapshot' for the document format.

Usage Examples:
$ rb snapshot -q '$.assets[*].name'

`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "JSONPath expression to evaluate over the snapshot document")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading the snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errNoSaved = errors.New("no saved snapshot")

func (c *snapshotCmd) run(ctx context.Context, w io.Writer) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s, ok, err := loadSaved(ctx, st)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w in %s", errNoSaved, cfg.Store)
	}
	if c.query == "" {
		printMarkdown(w, renderer.Snapshot(s, cfg.Currency))
		return nil
	}

	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	res, err := query(doc, c.query)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, res)
	return nil
}

// query evaluates the JSONPath expression 'path' on the JSON document 'doc'
// and returns the result as indented JSON.
func query(doc []byte, path string) (string, error) {
	var jobj any
	if err := json.Unmarshal(doc, &jobj); err != nil {
		return "", err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", path, err)
	}
	out, err := json.MarshalIndent(jval, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
