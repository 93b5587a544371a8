package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/config"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/output"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/simulation"
)

const logLevelEnv = "FIRECAST_LOG_LEVEL"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errDiverged is returned by replay when the recorded runs differ.
var errDiverged = errors.New("replay diverged from recorded runs")

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "firecast %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Version
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "firecast",
		Short: "Monte Carlo projection of savings and retirement phases",
		Long: `Simulate thousands of market paths through a plan of deposit, passive and
withdraw phases and summarise the capital distribution year by year.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); defaults to $"+logLevelEnv)

	root.AddCommand(runCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(replayCmd())
	root.AddCommand(modelsCmd())
	root.AddCommand(versionCmd())
	return root
}

func loggerFor(cmd *cobra.Command) slogLogger {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = os.Getenv(logLevelEnv)
	}
	return newLogger(level, cmd.ErrOrStderr())
}

// loadRequest parses the input file, applies command line overrides and
// builds the simulation request.
func loadRequest(cmd *cobra.Command, inputFile string) (*simulation.Request, error) {
	parser := config.NewInputParser()
	in, err := parser.LoadFromFile(inputFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("runs") {
		in.Runs, _ = flags.GetInt("runs")
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		in.Return.Seed = &seed
	}
	if flags.Changed("workers") {
		in.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("engine") {
		in.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("return") {
		spec, _ := flags.GetString("return")
		m, err := model.NewReturnRegistry().ParseReturnSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid --return: %w", err)
		}
		config.OverrideReturn(in, m)
	}

	if err := parser.ValidateInput(in); err != nil {
		return nil, err
	}
	return parser.Build(in)
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("runs", "n", 0, "Number of Monte Carlo runs (overrides the input file)")
	cmd.Flags().Int64P("seed", "s", -1, "Base seed; negative values are not reproducible")
	cmd.Flags().IntP("workers", "w", 0, "Worker count (default: one per CPU)")
	cmd.Flags().String("engine", "", "Engine: schedule or event")
	cmd.Flags().String("return", "", `Return model override, e.g. "normal:mean=7,std_dev=15"`)
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [input-file]",
		Short: "Run a Monte Carlo simulation",
		Long: `Run the plan described by the input file and print yearly summaries.

Examples:
  firecast run plan.yaml
  firecast run plan.yaml --runs 10000 --seed 42 --format csv --output summary.csv
  firecast run plan.yaml --return brownian:drift=6,volatility=18 --save-runs runs.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFor(cmd)
			req, err := loadRequest(cmd, args[0])
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			formatter, err := output.NewFormatter(format)
			if err != nil {
				return err
			}
			if tf, ok := formatter.(*output.TableFormatter); ok {
				tf.Phase, _ = cmd.Flags().GetString("phase")
			}

			sim := simulation.NewSimulator(nil)
			sim.SetLogger(logger)
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				attachProgress(sim, req, cmd.ErrOrStderr())
			}

			res, err := sim.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			if saveRuns, _ := cmd.Flags().GetString("save-runs"); saveRuns != "" {
				if err := saveRunResults(res, saveRuns); err != nil {
					return err
				}
				logger.Infof("saved %d runs to %s", len(res.Runs), saveRuns)
			}

			if outFile, _ := cmd.Flags().GetString("output"); outFile != "" {
				if err := output.WriteFile(formatter, res, outFile); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outFile)
				return nil
			}

			out, err := formatter.Format(res)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	addRequestFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format ("+strings.Join(output.Formats(), ", ")+")")
	cmd.Flags().StringP("output", "o", "", "Write the formatted result to a file instead of stdout")
	cmd.Flags().String("phase", "", "Only show summaries of this phase (table format)")
	cmd.Flags().String("save-runs", "", "Save every run's snapshots (.json or .csv)")
	cmd.Flags().BoolP("quiet", "q", false, "Do not show progress")
	return cmd
}

// attachProgress renders orchestrator progress lines as a progress bar.
func attachProgress(sim *simulation.Simulator, req *simulation.Request, w io.Writer) {
	if req.ProgressStep <= 0 {
		req.ProgressStep = max(1, req.Runs/100)
	}
	bar := output.NewProgressBar("Simulating", req.Runs)
	sim.Progress = func(line string) {
		current, total, ok := output.ParseProgress(line)
		if !ok {
			return
		}
		bar.Update(current, total)
		fmt.Fprint(w, "\r"+bar.Render())
		if bar.IsComplete() {
			fmt.Fprintln(w)
		}
	}
}

func saveRunResults(res *simulation.Result, filename string) error {
	var data string
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		data, err = output.FormatSnapshotsCSV(res.Runs)
	} else {
		data, err = (&output.JSONFormatter{IncludeRuns: true}).Format(res)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			in, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			req, err := parser.Build(in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Input file %s is valid\n", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "  Runs: %d  Phases: %d  Fingerprint: %s\n",
				req.Runs, len(req.Template.Phases), req.Fingerprint[:12])
			return nil
		},
	}
}

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [input-file] [runs-file]",
		Short: "Rerun a reproducible simulation and compare it with saved runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(cmd, args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			var report output.Report
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("failed to parse runs: %w", err)
			}
			if report.Seed != req.Template.Seed {
				return fmt.Errorf("saved runs use seed %d, input uses %d", report.Seed, req.Template.Seed)
			}
			req.Runs = len(report.RunResults)

			sim := simulation.NewSimulator(nil)
			sim.SetLogger(loggerFor(cmd))
			div, err := sim.Replay(cmd.Context(), req, report.RunResults)
			if err != nil {
				return err
			}
			if div != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Divergence at %s\n", div)
				return errDiverged
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Replay of %d runs matches\n", req.Runs)
			return nil
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available return models",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range model.NewReturnRegistry().List() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: could not load .env:", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
