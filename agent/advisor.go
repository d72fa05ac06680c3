package agent

import (
	"context"
	"fmt"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/docs"
	"github.com/etnz/rebalance/renderer"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Source returns the assets of the user's portfolio.
type Source func(ctx context.Context) (rebalance.Assets, error)

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of answering the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep the context of your previous questions.

			The user owns a portfolio of assets, each with a target percentage of the total value,
			and wants to know what to buy or sell to reach the targets, possibly after investing or
			withdrawing cash. Ask the Advisor for anything about the portfolio and the plan, and
			the Analyst for market information.

			Never pretend that the portfolio was changed: you can only read it.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor returns the expert that reads the portfolio from 'src' and
// computes rebalance plans, with amounts displayed in 'currency'.
func NewAdvisor(model string, src Source, currency string) *Expert {
	lib := []Function{rebalancePlan(src, currency), topic()}
	return &Expert{
		Name: "Advisor",
		Description: `This is the Advisor. It reads the user's portfolio: the assets, their price, quantity,
		value and target percentage. It computes the buy and sell operations that rebalance the
		portfolio, for any cash deposit or withdrawal, and knows how the computation works.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the advisor in charge of the user's portfolio rebalancing.
				Use the RebalancePlan tool to read the holdings and the operations, always with the
				cash adjustment the question is about (0 when none), and the Topic tool to read the
				documentation before explaining how the plan is computed.
				Never invent figures: quote the ones returned by the tools.
			`}}},
		},
		Library: NewLibrary(lib),
		Log:     zerolog.Nop(),
	}
}

// NewAnalyst returns the expert that searches the web for market information.
func NewAnalyst(model string) *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a market analyst, aware of financial products, funds and companies and of the
		latest news about them. Ask the Analyst whenever you need recent or grounding information,
		for instance a recent price.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a market analyst. You leverage Google Search to ground your assertions
			about financial institutions, companies, markets and funds, and you cite your sources.
				`}}},
		},
		Log: zerolog.Nop(),
	}
}

func rebalancePlan(src Source, currency string) *Func {
	const name = "RebalancePlan"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `RebalancePlan reads the user's portfolio and returns a markdown report with the holdings
			(price, quantity, value, current and target percentage of each asset) and the ordered list
			of operations that rebalance it after the given cash adjustment.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"cashAdjustment": {
						Type:        genai.TypeNumber,
						Description: "Cash deposited (positive) or withdrawn (negative) before rebalancing. 0 by default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown report of the holdings and operations.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			var cash float64
			if v, ok := args["cashAdjustment"]; ok {
				f, ok := v.(float64)
				if !ok {
					return failure(id, name, fmt.Errorf("argument 'cashAdjustment' is not a number but %T", v))
				}
				cash = f
			}
			assets, err := src(ctx)
			if err != nil {
				return failure(id, name, fmt.Errorf("could not read the portfolio: %w", err))
			}
			plan := rebalance.Evaluate(assets, cash)
			return success(id, name, renderer.Markdown(renderer.NewReport(assets, plan, currency)))
		},
	}
}

func topic() *Func {
	const name = "Topic"
	topics, _ := docs.List()
	summaries, _ := docs.Summaries()
	var list string
	for _, t := range topics {
		list += fmt.Sprintf("\n - %s: %s", t, summaries[t])
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Topic returns a topic of the user documentation of rb. The topics are:" + list,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString, Description: "The name of the topic."},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown content of the topic.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, ok := args["name"].(string)
			if !ok {
				return failure(id, name, fmt.Errorf("argument 'name' is not a string but %T", args["name"]))
			}
			content, err := docs.Topic(topic)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, content)
		},
	}
}
