package cmd

import (
	"flag"
	"io"

	"github.com/etnz/rebalance/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors for flags that take a known kind of value. Other flags accept
// anything.
var predictors = map[string]complete.Predictor{
	"store":     predict.Or(predict.Files("*.json"), predict.Dirs("*")),
	"in":        predict.Files("*.json"),
	"o":         predict.Files("*.html"),
	"currency":  predict.Set{"EUR", "USD", "GBP", "CHF", "JPY"},
	"log-level": predict.Set{"debug", "info", "warn", "error"},
	"format":    predict.Set{"html", "md"},
}

// Completion returns the shell completion of rb: global flags, subcommands
// and their flags, and documentation topics.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	for _, e := range Commands {
		fs := flag.NewFlagSet(e.Command.Name(), flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		e.Command.SetFlags(fs)
		root.Sub[e.Command.Name()] = &complete.Command{Flags: flagPredictors(fs)}
	}
	topics, _ := docs.List()
	root.Sub["topic"].Args = predict.Set(topics)
	root.Sub["help"] = &complete.Command{Args: predict.Set(subcommandNames())}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := predictors[f.Name]; ok {
			res[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[f.Name] = predict.Nothing
			return
		}
		res[f.Name] = predict.Something
	})
	return res
}

func subcommandNames() []string {
	names := make([]string, 0, len(Commands))
	for _, e := range Commands {
		names = append(names, e.Command.Name())
	}
	return names
}
