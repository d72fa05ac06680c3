// Package agent implements the AI advisor of rb, a chat with Gemini experts
// that can read the portfolio and the documentation but never change them.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	log         zerolog.Logger
	Facilitator *Expert
	Experts     []*Expert
	// Print writes a markdown answer. It defaults to printing it as is.
	Print func(w io.Writer, md string)
}

// New creates a new Agent whose facilitator, running 'model', dispatches
// the user's questions to 'experts'.
//
// Answers are written to 'w' and user input is read from 'r'.
func New(w io.Writer, r io.Reader, log zerolog.Logger, model string, experts ...*Expert) *Agent {
	a := &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		log:         log.With().Str("component", "agent").Logger(),
		Experts:     experts,
		Facilitator: newFacilitator(model, experts...),
		Print:       func(w io.Writer, md string) { fmt.Fprintln(w, md) },
	}
	a.Facilitator.Log = a.log
	return a
}

// Start creates the chats of every expert and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("starting expert %s: %w", e.Name, err)
		}
	}
	if err := a.Facilitator.Start(ctx, client); err != nil {
		return fmt.Errorf("starting the facilitator: %w", err)
	}
	return nil
}

const prompt = "assist> "

// Run starts the interactive REPL session. The 'prompts' are asked first, as
// if the user typed them. Chats not started yet are started with 'client'.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to rb assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					fmt.Fprintln(a.w)
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.log.Debug().Int("parts", len(content.Parts)).Msg("answer received")
		a.Print(a.w, text(content))
	}
}

// text concatenates the text parts of 'content'.
func text(content *genai.Content) string {
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
