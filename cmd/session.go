package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/etnz/rebalance/store"
	"github.com/google/subcommands"
)

type sessionCmd struct{}

func (*sessionCmd) Name() string     { return "session" }
func (*sessionCmd) Synopsis() string { return "edit the portfolio interactively" }
func (*sessionCmd) Usage() string {
	return `rb session

  Opens an interactive session to add, edit and remove assets, try cash
  adjustments, look at the plan, and save the rebalanced portfolio.
  Type 'help' in the session for the list of commands.
`
}

func (*sessionCmd) SetFlags(f *flag.FlagSet) {}

func (*sessionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	st, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer st.Close()

	s := newSession(st, os.Stdin, os.Stdout)
	if err := s.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error in session: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

const sessionPrompt = "rb> "

const sessionHelp = `Commands:
  add <name> <price> <quantity> <target>   add an asset
  rm <name>                                remove an asset
  rename <name> <new name>                 rename an asset
  set <name> price|quantity|target <value> change a field of an asset
  cash <amount>                            deposit (positive) or withdraw (negative) cash
  show                                     print the holdings
  plan                                     print the holdings and the operations
  save                                     save the rebalanced portfolio
  load                                     replace the assets with the saved snapshot
  help                                     print this help
  bye                                      leave the session
Names with spaces are written between double quotes.
`

// session is the interactive editor of a portfolio. It owns the portfolio
// for its whole lifetime.
type session struct {
	p   *rebalance.Portfolio
	st  store.Store
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

func newSession(st store.Store, r io.Reader, w io.Writer) *session {
	return &session{
		p:   rebalance.NewPortfolio(nil),
		st:  st,
		in:  bufio.NewScanner(r),
		out: w,
		now: time.Now,
	}
}

// readLine returns the next input line, false at the end of the input.
func (s *session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// run offers the saved snapshot, then reads and executes commands until
// 'bye' or the end of the input.
func (s *session) run(ctx context.Context) error {
	saved, ok, err := loadSaved(ctx, s.st)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "A portfolio of %d assets was saved on %s. Load it? [Y/n] ", len(saved.Assets), saved.Date.Local().Format("02/01/2006"))
		answer, _ := s.readLine()
		switch strings.ToLower(answer) {
		case "", "y", "yes":
			s.p.Load(saved)
			fmt.Fprintf(s.out, "Loaded %d assets.\n", s.p.Len())
		default:
			fmt.Fprintln(s.out, "Starting with no assets.")
		}
	}
	fmt.Fprintln(s.out, "Type 'help' for the list of commands, 'bye' to leave.")

	for {
		fmt.Fprint(s.out, sessionPrompt)
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			break
		}
		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "bye" || args[0] == "exit" || args[0] == "quit" {
			break
		}
		if err := s.exec(ctx, args[0], args[1:]); err != nil {
			log.Debug().Err(err).Str("command", line).Msg("session command failed")
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
	if s.p.Modified() {
		fmt.Fprintln(s.out, "Unsaved changes were discarded.")
	}
	return s.in.Err()
}

var errUsage = errors.New("wrong number of arguments")

// exec runs a single session command.
func (s *session) exec(ctx context.Context, name string, args []string) error {
	want := map[string]int{
		"add": 4, "rm": 1, "rename": 2, "set": 3, "cash": 1,
		"show": 0, "plan": 0, "save": 0, "load": 0, "help": 0,
	}
	n, known := want[name]
	if !known {
		return fmt.Errorf("unknown command %q, type 'help' for the list of commands", name)
	}
	if len(args) != n {
		return fmt.Errorf("%w for %s, type 'help' for the usage", errUsage, name)
	}

	switch name {
	case "add":
		a, err := s.p.Add(rebalance.Draft{Name: args[0], Price: args[1], Quantity: args[2], TargetPercentage: args[3]})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Added %s.\n", a.Name)

	case "rm":
		id, err := s.p.Lookup(args[0])
		if err != nil {
			return err
		}
		if err := s.p.Remove(id); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Removed %s.\n", args[0])

	case "rename":
		id, err := s.p.Lookup(args[0])
		if err != nil {
			return err
		}
		if err := s.p.Rename(id, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Renamed %s to %s.\n", args[0], strings.TrimSpace(args[1]))

	case "set":
		id, err := s.p.Lookup(args[0])
		if err != nil {
			return err
		}
		field, err := rebalance.ParseField(args[1])
		if err != nil {
			return err
		}
		if err := s.p.Set(id, field, args[2]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Updated the %s of %s.\n", field, args[0])

	case "cash":
		v, err := rebalance.ParseCashAdjustment(args[0])
		if err != nil {
			return err
		}
		s.p.SetCashAdjustment(v)
		switch {
		case v > 0:
			fmt.Fprintf(s.out, "Cash to deposit: %s.\n", rebalance.FormatAmount(v, cfg.Currency))
		case v < 0:
			fmt.Fprintf(s.out, "Cash to withdraw: %s.\n", rebalance.FormatAmount(-v, cfg.Currency))
		default:
			fmt.Fprintln(s.out, "No cash adjustment.")
		}

	case "show":
		printMarkdown(s.out, renderer.Holdings(s.report()))

	case "plan":
		printMarkdown(s.out, renderer.Markdown(s.report()))

	case "save":
		return s.save(ctx)

	case "load":
		saved, ok, err := loadSaved(ctx, s.st)
		if err != nil {
			return err
		}
		if !ok {
			return errNoSaved
		}
		s.p.Load(saved)
		fmt.Fprintf(s.out, "Loaded %d assets saved on %s.\n", s.p.Len(), saved.Date.Local().Format("02/01/2006"))

	case "help":
		fmt.Fprint(s.out, sessionHelp)
	}
	return nil
}

func (s *session) report() *renderer.Report {
	return renderer.NewReport(s.p.Assets(), s.p.Plan(), cfg.Currency)
}

var errNotSavable = errors.New("the portfolio cannot be saved in its current state")

func (s *session) save(ctx context.Context) error {
	if !s.p.CanSave() {
		if !s.p.Modified() {
			return errors.New("nothing changed since the last save or load")
		}
		if reason := s.p.Plan().Reason; reason != "" {
			return errors.New(reason)
		}
		return errNotSavable
	}
	snapshot := s.p.Snapshot(s.now())
	if err := s.st.Save(ctx, snapshot); err != nil {
		return err
	}
	log.Info().Int("assets", len(snapshot.Assets)).Msg("snapshot saved")
	fmt.Fprintf(s.out, "Saved on %s.\n", snapshot.Date.Local().Format("02/01/2006"))
	return nil
}

// splitArgs splits a command line on spaces. Double quotes group words.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inWord  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inWord = true
		case !quoted && (r == ' ' || r == '\t'):
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
