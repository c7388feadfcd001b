// The run command: execute scenario files against the model.
//
// Exits non-zero when any expectation fails, so scenario suites slot into
// CI pipelines unchanged.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/fiscal-engine/dutchtax"
	"github.com/warp/fiscal-engine/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Run scenario files and report mismatches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		return runScenarios(cfg, args)
	},
}

func init() {
	runCmd.Flags().String(cfgKeyDB, "", "SQLite parameter store path")
	runCmd.Flags().String(cfgKeyParamsFile, "", "YAML parameter document")
}

func runScenarios(cfg *config, paths []string) error {
	params, closer, err := buildParams(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}
	registry := dutchtax.NewRegistry()

	failed := 0
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}
		result, err := scenario.Run(registry, params, sc)
		if err != nil {
			return err
		}

		if result.OK() {
			fmt.Printf("ok   %s (%d checks)\n", result.Name, result.Checks)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", result.Name)
		for _, f := range result.Failures {
			fmt.Printf("     %s\n", f)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
	}
	return nil
}
