package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bimrov/adapters/api"
	"bimrov/adapters/excel"
	"bimrov/adapters/report"
	"bimrov/app"
	"bimrov/domain/tender"
	"bimrov/internal/config"
)

func main() {
	// Optional local overrides (SIM_ITERATIONS, SIM_SEED, SIM_WORKERS, LOG_LEVEL)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "bimrov",
		Short: "Monte Carlo real-options valuation for engineering tender decisions",
	}

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newSensitivityCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// simFlags binds the run settings shared by evaluate and sensitivity.
type simFlags struct {
	iterations int
	seed       int64
	workers    int
}

func (f *simFlags) register(cmd *cobra.Command) {
	defaults, err := config.LoadSimConfig()
	if err != nil {
		defaults = config.DefaultSimConfig()
	}
	cmd.Flags().IntVar(&f.iterations, "iterations", defaults.Iterations, "Monte Carlo iterations per project")
	cmd.Flags().Int64Var(&f.seed, "seed", defaults.Seed, "Random seed for deterministic runs")
	cmd.Flags().IntVar(&f.workers, "workers", defaults.Workers, "Parallel workers per project")
}

// config assembles the run settings from the parsed flags. Validation happens
// at engine construction.
func (f *simFlags) config() config.SimConfig {
	cfg := config.DefaultSimConfig()
	cfg.Iterations = f.iterations
	cfg.Seed = f.seed
	cfg.Workers = f.workers
	return cfg
}

func newEvaluateCmd() *cobra.Command {
	var flags simFlags
	var outputPath string
	var reportPath string
	var useSample bool

	cmd := &cobra.Command{
		Use:   "evaluate [input-file]",
		Short: "Evaluate a portfolio of tender projects",
		Long: `Evaluate tender projects from an xlsx or csv file and print a decision
per project. Rows with invalid fields are rejected individually; the rest of
the batch still runs.

Example: bimrov evaluate projects.xlsx --iterations 10000 --seed 42 --output results.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var inputs []tender.ProjectInput
			switch {
			case useSample:
				inputs = app.SampleProjects()
			case len(args) == 1:
				reader := excel.NewProjectReader(args[0])
				var err error
				inputs, err = reader.ReadProjects()
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("provide an input file or use --sample")
			}

			service, err := app.NewValuationService(flags.config(), config.DefaultFixedParams())
			if err != nil {
				return err
			}

			batch := service.EvaluateBatch(cmd.Context(), inputs)
			printBatch(batch)

			if outputPath != "" {
				if err := excel.NewResultWriter(outputPath).WriteBatch(batch); err != nil {
					return err
				}
				fmt.Printf("Results written to %s\n", outputPath)
			}
			if reportPath != "" {
				if err := writeReport(reportPath, report.NewGenerator().BatchMarkdown(batch)); err != nil {
					return err
				}
				fmt.Printf("Report written to %s\n", reportPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write results to xlsx or csv file")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a markdown (.md) or HTML (.html) report")
	cmd.Flags().BoolVar(&useSample, "sample", false, "Evaluate the built-in reference portfolio")

	return cmd
}

func newSensitivityCmd() *cobra.Command {
	var flags simFlags
	var projectID string
	var delta float64
	var outputPath string

	cmd := &cobra.Command{
		Use:   "sensitivity [input-file]",
		Short: "Run a +/-delta sensitivity sweep for one project",
		Long: `Perturb each derived estimate by +/-delta and report the realized swing in
mean total project value.

Example: bimrov sensitivity projects.xlsx --project R01 --delta 0.2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := excel.NewProjectReader(args[0])
			inputs, err := reader.ReadProjects()
			if err != nil {
				return err
			}

			input, err := pickProject(inputs, projectID)
			if err != nil {
				return err
			}

			service, err := app.NewValuationService(flags.config(), config.DefaultFixedParams())
			if err != nil {
				return err
			}

			sweep, err := service.Sensitivity(cmd.Context(), input, delta)
			if err != nil {
				return err
			}

			fmt.Print(report.NewGenerator().SensitivityMarkdown(sweep))

			if outputPath != "" {
				if err := excel.NewResultWriter(outputPath).WriteSensitivity(sweep); err != nil {
					return err
				}
				fmt.Printf("Sweep written to %s\n", outputPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID to sweep (default: first row)")
	cmd.Flags().Float64Var(&delta, "delta", 0.20, "Relative perturbation per parameter")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the sweep to xlsx or csv file")

	return cmd
}

func newServeCmd() *cobra.Command {
	var flags simFlags
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the valuation API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := app.NewValuationService(flags.config(), config.DefaultFixedParams())
			if err != nil {
				return err
			}
			return api.NewApp(api.Config{Port: port}, service).Start()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&port, "port", "8080", "HTTP listen port")

	return cmd
}

func pickProject(inputs []tender.ProjectInput, projectID string) (tender.ProjectInput, error) {
	if len(inputs) == 0 {
		return tender.ProjectInput{}, fmt.Errorf("input file has no project rows")
	}
	if projectID == "" {
		return inputs[0], nil
	}
	for _, input := range inputs {
		if input.ProjectID == projectID {
			return input, nil
		}
	}
	return tender.ProjectInput{}, fmt.Errorf("project %q not found in input", projectID)
}

func printBatch(batch *app.BatchResult) {
	fmt.Printf("Run %s: %d evaluated, %d rejected\n\n", batch.RunID, batch.Succeeded, batch.Failed)
	fmt.Printf("%-10s %12s %12s %-16s %10s\n", "PROJECT", "NPV", "TPV", "DECISION", "ROBUST")
	for _, outcome := range batch.Outcomes {
		if outcome.Err != nil {
			fmt.Printf("%-10s %12s %12s %-16s %10s  (%s)\n",
				outcome.Input.ProjectID, "-", "-", "rejected", "-", outcome.ErrMsg)
			continue
		}
		res := outcome.Result
		decision := string(res.Decision)
		if res.DecisionChanged {
			decision += " *"
		}
		fmt.Printf("%-10s %12.1f %12.1f %-16s %9.0f%%\n",
			res.ProjectID, res.NPVMean, res.TPVMean, decision, res.DecisionRobustness*100)
	}
	fmt.Println("\n* decision differs from the NPV-only call")
}

func writeReport(path, md string) error {
	if strings.HasSuffix(strings.ToLower(path), ".html") {
		return os.WriteFile(path, report.ToHTML(md), 0o644)
	}
	return os.WriteFile(path, []byte(md), 0o644)
}
