// Package cmd implements the rb command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/logger"
	"github.com/etnz/rebalance/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Commands lists every rb subcommand, with its group.
var Commands = []struct {
	Command subcommands.Command
	Group   string
}{
	{&planCmd{}, "rebalance"},
	{&saveCmd{}, "rebalance"},
	{&exportCmd{}, "rebalance"},
	{&sessionCmd{}, "rebalance"},
	{&snapshotCmd{}, "snapshot"},
	{&assistCmd{}, "help"},
	{&topicCmd{}, "help"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range Commands {
		c.Register(e.Command, e.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeFlag    = flag.String("store", DefaultStore, "where the snapshot is kept: a JSON file path, file:<path> or badger:<dir>")
	currencyFlag = flag.String("currency", "", "display currency of amounts, for instance EUR")
	logLevelFlag = flag.String("log-level", DefaultLogLevel, "log level: debug, info, warn or error")
	rawFlag      = flag.Bool("raw", false, "print markdown as is, without terminal styling")
)

// cfg and log are set by Setup.
var (
	cfg = Config{Store: DefaultStore, LogLevel: DefaultLogLevel, Model: DefaultModel}
	log = zerolog.Nop()
)

// Setup loads the optional .env file, resolves the configuration from the
// parsed command line flags and the environment, and creates the logger. It
// must be called after flag.Parse.
func Setup() {
	envErr := godotenv.Load()
	cfg = resolveConfig(flag.CommandLine, os.LookupEnv)
	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}
	log.Debug().Str("store", cfg.Store).Str("currency", cfg.Currency).Msg("configuration loaded")
}

// openStore opens the configured store.
func openStore() (store.Store, error) {
	st, err := store.Open(cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("could not open store %q: %w", cfg.Store, err)
	}
	return st, nil
}

// loadSaved returns the saved snapshot. A missing or malformed snapshot is
// not an error: ok is false and the malformed one is logged.
func loadSaved(ctx context.Context, st store.Store) (s rebalance.Snapshot, ok bool, err error) {
	s, err = st.Load(ctx)
	switch {
	case err == nil:
		return s, true, nil
	case errors.Is(err, store.ErrNoSnapshot):
		return s, false, nil
	case errors.Is(err, rebalance.ErrMalformedSnapshot):
		log.Warn().Err(err).Str("store", cfg.Store).Msg("ignoring malformed snapshot")
		return s, false, nil
	default:
		return s, false, err
	}
}

// readAssets reads the assets to work on: from the JSON file 'in' ("-" for
// the standard input), or from the saved snapshot when 'in' is empty.
func readAssets(ctx context.Context, in string) (rebalance.Assets, error) {
	if in == "" {
		st, err := openStore()
		if err != nil {
			return nil, err
		}
		defer st.Close()
		s, ok, err := loadSaved(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("could not load snapshot: %w", err)
		}
		if !ok {
			log.Info().Str("store", cfg.Store).Msg("no saved snapshot, starting with no assets")
		}
		return s.Assets, nil
	}

	var r io.Reader = os.Stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	assets, err := rebalance.DecodeAssets(r)
	if err != nil {
		return nil, fmt.Errorf("could not read assets from %q: %w", in, err)
	}
	return assets, nil
}

// printMarkdown writes 'md' to 'w', styled for the terminal unless -raw is set.
func printMarkdown(w io.Writer, md string) {
	if cfg.Raw {
		fmt.Fprint(w, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		log.Debug().Err(err).Msg("no terminal renderer, printing raw markdown")
		fmt.Fprint(w, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("could not style markdown, printing it raw")
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

// cashFlag is a flag.Value for a signed cash adjustment.
type cashFlag float64

func (c *cashFlag) String() string { return rebalance.FormatNumber(float64(*c)) }

func (c *cashFlag) Set(s string) error {
	v, err := rebalance.ParseCashAdjustment(s)
	if err != nil {
		return err
	}
	*c = cashFlag(v)
	return nil
}
