package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Feiyang1/tsickle/internal/config"
)

type globalOptions struct {
	color          bool
	quiet          bool
	timings        bool
	verbose        bool
	maxDiagnostics int
	jobs           int
	format         string
}

func readGlobals(cmd *cobra.Command) (globalOptions, error) {
	var g globalOptions
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return g, errors.Wrap(err, "failed to get color flag")
	}
	switch colorFlag {
	case "on":
		g.color = true
	case "off":
	case "auto":
		g.color = isTerminal(os.Stderr)
	default:
		return g, errors.Newf("unknown color value: %s", colorFlag)
	}

	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, errors.Wrap(err, "failed to get quiet flag")
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, errors.Wrap(err, "failed to get timings flag")
	}
	if g.verbose, err = flags.GetBool("verbose"); err != nil {
		return g, errors.Wrap(err, "failed to get verbose flag")
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, errors.Wrap(err, "failed to get max-diagnostics flag")
	}
	if g.jobs, err = flags.GetInt("jobs"); err != nil {
		return g, errors.Wrap(err, "failed to get jobs flag")
	}
	if g.format, err = flags.GetString("format"); err != nil {
		return g, errors.Wrap(err, "failed to get format flag")
	}
	switch g.format {
	case "pretty", "json", "short":
	default:
		return g, errors.WithHint(errors.Newf("unknown format: %s", g.format), "use pretty, json or short")
	}
	return g, nil
}

func (g globalOptions) logger() (*zap.Logger, error) {
	switch {
	case g.quiet:
		return zap.NewNop(), nil
	case g.verbose:
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}

// loadConfig reads tsickle.toml from the working directory or its parents.
func loadConfig(logger *zap.Logger) (config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, errors.Wrap(err, "working directory")
	}
	cfg, path, found, err := config.Load(wd)
	if err != nil {
		return cfg, err
	}
	if found {
		logger.Debug("config loaded", zap.String("path", path))
	}
	return cfg, nil
}
