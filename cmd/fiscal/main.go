/*
main.go - Application entry point

PURPOSE:
  The fiscal CLI: serves the calculation API, runs scenario files, and
  inspects the variable catalog. Command wiring lives here; each command
  sits in its own file.

COMMANDS:
  serve       Start the HTTP API server
  run         Execute scenario files and report mismatches
  variables   List the registered variables
  version     Print the version number

CONFIGURATION:
  Flags override config file values, which override defaults. The config
  file is fiscal.yaml in the working directory (or --config). See
  config.go for keys.

EXAMPLES:
  # Serve with the built-in parameter sets
  fiscal serve

  # Serve from a SQLite parameter store
  fiscal serve --db=./data/fiscal.db

  # Serve with parameters from a YAML document
  fiscal serve --params=./parameters.yaml

  # Run scenarios
  fiscal run scenarios/*.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - scenario: Scenario file format
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/fiscal-engine/dutchtax"
	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/factory"
	"github.com/warp/fiscal-engine/store/sqlite"
)

// configFile is set by the --config flag.
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fiscal",
	Short: "Fiscal is a household tax and benefit calculation engine",
	Long: `Fiscal evaluates a model of the Dutch tax and benefit rules over
declarative household situations. Variables form a dependency graph;
rates and thresholds are date-versioned parameters, so the same model
answers for any supported tax year.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./fiscal.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(variablesCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildParams picks the parameter source: a SQLite store when a database
// path is configured (seeded with the built-in sets if empty), a YAML
// document when a parameters file is configured, and the built-in sets
// otherwise. The returned closer is non-nil for sources that hold
// resources.
func buildParams(cfg *config) (engine.ParameterResolver, func() error, error) {
	switch {
	case cfg.DBPath != "":
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open parameter store: %w", err)
		}
		if err := seedIfEmpty(s, cfg.ParamsFile); err != nil {
			s.Close()
			return nil, nil, err
		}
		return s, s.Close, nil

	case cfg.ParamsFile != "":
		m, err := factory.LoadFile(cfg.ParamsFile)
		if err != nil {
			return nil, nil, err
		}
		return m, nil, nil

	default:
		return dutchtax.NewParameterStore(), nil, nil
	}
}

// seedIfEmpty loads a fresh SQLite store from the parameters file, or from
// the built-in sets when no file is configured. A store that already has
// sets is left alone.
func seedIfEmpty(s *sqlite.Store, paramsFile string) error {
	ctx := context.Background()
	sets, err := s.Sets(ctx)
	if err != nil {
		return err
	}
	if len(sets) > 0 {
		return nil
	}

	if paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", paramsFile, err)
		}
		trees, err := factory.Parse(data)
		if err != nil {
			return err
		}
		for _, t := range trees {
			if err := s.SaveSet(ctx, t.From, t.Tree); err != nil {
				return err
			}
		}
		return nil
	}

	memory := dutchtax.NewParameterStore()
	for _, year := range []int{2024, 2025} {
		tree, err := memory.ParametersAt(engine.NewYear(year))
		if err != nil {
			return err
		}
		if err := s.SaveSet(ctx, engine.NewYear(year), tree); err != nil {
			return err
		}
	}
	return nil
}
