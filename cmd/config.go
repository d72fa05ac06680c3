package cmd

import (
	"flag"
	"strconv"
)

// Environment variables read as fallbacks of the global flags.
const (
	EnvStore    = "RB_STORE"
	EnvCurrency = "RB_CURRENCY"
	EnvLogLevel = "RB_LOG_LEVEL"
	EnvRaw      = "RB_RAW"
	EnvModel    = "RB_MODEL"
)

const (
	DefaultStore    = "portfolio.json"
	DefaultLogLevel = "warn"
	DefaultModel    = "gemini-2.5-pro"
)

// Config is the resolved application configuration.
type Config struct {
	Store    string
	Currency string
	LogLevel string
	Raw      bool
	Model    string
}

// resolveConfig reads the global flags of 'fs'. A flag that was not set on
// the command line takes the value of its environment variable, if not empty.
func resolveConfig(fs *flag.FlagSet, lookupEnv func(string) (string, bool)) Config {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	value := func(name, env string) string {
		if !set[name] {
			if v, ok := lookupEnv(env); ok && v != "" {
				return v
			}
		}
		if f := fs.Lookup(name); f != nil {
			return f.Value.String()
		}
		return ""
	}

	c := Config{
		Store:    value("store", EnvStore),
		Currency: value("currency", EnvCurrency),
		LogLevel: value("log-level", EnvLogLevel),
		Model:    DefaultModel,
	}
	c.Raw, _ = strconv.ParseBool(value("raw", EnvRaw))
	if v, ok := lookupEnv(EnvModel); ok && v != "" {
		c.Model = v
	}
	if c.Store == "" {
		c.Store = DefaultStore
	}
	return c
}
