package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mlfqsim/internal/metrics"
	"mlfqsim/internal/procfile"
	"mlfqsim/internal/report"
	"mlfqsim/internal/sched"
	"mlfqsim/internal/trace"
)

var (
	logLevel    string // Log verbosity level
	configPath  string // YAML scheme file
	schemeID    int    // Built-in scheme, overrides the config file when set
	inputPath   string // Process records
	outputPath  string // Result records
	traceCSV    string // Event log destination
	metricsPath string // Prometheus text dump destination, "-" for stdout
	showGantt   bool   // Print the CPU timeline
	interactive bool   // Prompt for scheme and file names
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:           "mlfqsim",
	Short:         "Multilevel feedback queue CPU scheduling simulator",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)
		logrus.SetOutput(cmd.ErrOrStderr())
		return nil
	},
}

// runCmd replays the input processes under the selected scheme
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the MLFQ simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sched.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("scheme") {
			cfg.Scheme = schemeID
			cfg.Levels = nil
		}
		if interactive {
			if err := prompt(cmd.InOrStdin(), cmd.OutOrStdout(), &cfg); err != nil {
				return err
			}
		}
		if inputPath == "" {
			return fmt.Errorf("no input file given (use --input)")
		}
		return simulate(cmd.OutOrStdout(), cfg)
	},
}

// schemesCmd lists the built-in schemes
var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the built-in level schemes",
	Run: func(cmd *cobra.Command, args []string) {
		report.Schemes(cmd.OutOrStdout(), sched.Schemes(), sched.DefaultSchemeID)
	},
}

func simulate(out io.Writer, cfg sched.Config) error {
	scheme := cfg.Resolve()
	levels, err := scheme.Build()
	if err != nil {
		return fmt.Errorf("building scheme: %w", err)
	}

	procs, err := procfile.ReadFile(inputPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	recorder := trace.NewRecorder()

	engine, err := sched.New(levels, sched.WithObserver(recorder), sched.WithObserver(collector))
	if err != nil {
		return err
	}
	for _, p := range procs {
		if err := engine.AdmitNew(p); err != nil {
			logrus.Warnf("skipping process: %v", err)
			continue
		}
		logrus.Infof("loaded %s BT=%d AT=%d Q=%d Pr=%d", p.Label, p.BurstTime, p.ArrivalTime, p.QueueLevel, p.Priority)
	}

	logrus.Infof("starting simulation with %s (%s)", scheme.Name, scheme)
	engine.Run()
	logrus.Infof("simulation completed at t=%d", engine.Clock())

	finished := engine.Finished()
	collector.RecordFinished(finished)

	report.Title(out, fmt.Sprintf("MLFQ %s: %s", scheme.Name, scheme))
	if showGantt {
		report.Gantt(out, recorder.Slices())
	}
	report.Results(out, finished)
	report.Summary(out, engine.Clock(), engine.Executed(), engine.IdleTicks())

	if outputPath != "" {
		if err := procfile.WriteFile(outputPath, finished); err != nil {
			return err
		}
		logrus.Infof("results saved to %s", outputPath)
	}
	if traceCSV != "" {
		if err := writeTo(traceCSV, out, recorder.WriteCSV); err != nil {
			return err
		}
	}
	if metricsPath != "" {
		if err := writeTo(metricsPath, out, func(w io.Writer) error { return metrics.WriteText(w, reg) }); err != nil {
			return err
		}
	}
	return nil
}

// writeTo sends fn's output to path, or to stdout when path is "-".
func writeTo(path string, stdout io.Writer, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// prompt asks for the scheme and any file names not given as flags.
func prompt(in io.Reader, out io.Writer, cfg *sched.Config) error {
	sc := bufio.NewScanner(in)
	ask := func(q string) string {
		_, _ = fmt.Fprint(out, q)
		if !sc.Scan() {
			return ""
		}
		return strings.TrimSpace(sc.Text())
	}

	_, _ = fmt.Fprintln(out, "Select a scheme:")
	report.Schemes(out, sched.Schemes(), sched.DefaultSchemeID)
	answer := ask(fmt.Sprintf("Scheme [1-%d] (Enter for %d): ", len(sched.Schemes()), sched.DefaultSchemeID))
	cfg.Scheme = sched.DefaultSchemeID
	cfg.Levels = nil
	if answer != "" {
		if id, err := strconv.Atoi(answer); err == nil {
			cfg.Scheme = id
		} else {
			logrus.Warnf("invalid scheme %q, using %d", answer, sched.DefaultSchemeID)
		}
	}
	if inputPath == "" {
		inputPath = ask("Input file: ")
	}
	if outputPath == "" {
		outputPath = ask("Output file: ")
	}
	return sc.Err()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML scheme file")
	runCmd.Flags().IntVarP(&schemeID, "scheme", "s", sched.DefaultSchemeID, "Built-in scheme id (see the schemes command)")
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Process file (label;burst;arrival;queue;priority)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Result file")
	runCmd.Flags().StringVar(&traceCSV, "trace-csv", "", "Write the event log as CSV (\"-\" for stdout)")
	runCmd.Flags().StringVar(&metricsPath, "metrics", "", "Write Prometheus metrics in text format (\"-\" for stdout)")
	runCmd.Flags().BoolVar(&showGantt, "gantt", false, "Print the CPU timeline")
	runCmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for scheme and file names")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schemesCmd)
}
