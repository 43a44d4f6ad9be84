// Command stsc runs the middle end pipeline over a compilation unit and
// prints its diagnostics and Core IR summary. Grounded on ailang's
// cmd/ailang/main.go cobra command tree (a root command with config-file
// and verbosity flags, subcommands added via AddCommand).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stslang/stsc/internal/diagreport"
	"github.com/stslang/stsc/internal/middleend"
	"github.com/stslang/stsc/internal/pipelinecfg"
)

var (
	configPath string
	stopOnErr  bool
	showTiming bool
)

func main() {
	root := &cobra.Command{
		Use:   "stsc",
		Short: "Compile a unit's surface AST to Core IR",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a pipeline manifest (YAML)")
	root.PersistentFlags().BoolVar(&stopOnErr, "stop-on-error", false, "abort after the Validator if any diagnostic was raised")
	root.PersistentFlags().BoolVar(&showTiming, "timing", false, "print per-phase timing after compilation")

	root.AddCommand(compileCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func compileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Run the pipeline over the built-in sample unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pipelinecfg.Default()
			if configPath != "" {
				loaded, err := pipelinecfg.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			result, diags := middleend.Run(middleend.Config{StopOnValidateErrors: stopOnErr || cfg.StopOnError}, sampleUnit())

			diagreport.PrintAll(os.Stdout, diags)
			if len(diags) > 0 {
				fmt.Fprintln(os.Stdout)
			}
			diagreport.Summary(os.Stdout, diags)

			fmt.Printf("structs=%d unions=%d funcs=%d\n",
				len(result.Program.Structs), len(result.Program.Unions), len(result.Program.Funcs))

			if showTiming {
				for phase, d := range result.PhaseTimings {
					fmt.Printf("  %-14s %s\n", phase, d.Round(time.Microsecond))
				}
			}
			return nil
		},
	}
}
