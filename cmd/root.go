// Package cmd implements the sandrun CLI: the launch invocation, the
// hidden re-exec entrypoint, and the version command.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"sandrun/logging"
	"sandrun/policy"
	"sandrun/report"
	"sandrun/supervisor"
)

// Global flags
var (
	globalProfile   string
	globalLog       string
	globalLogFormat string
	globalDebug     bool
)

// rootCmd is the base command: `sandrun [--profile=...] <executable> [args...]`.
var rootCmd = &cobra.Command{
	Use:   "sandrun [--profile=STRICT|RESOURCE-AWARE|LEARNING] <executable> [args...]",
	Short: "Sandbox launcher with adaptive telemetry",
	Long: `sandrun runs an untrusted native executable inside a strongly
isolated subprocess (new namespaces, reduced resource limits, a
syscall allow-list) while a supervisor samples runtime metrics and,
under the LEARNING profile, can escalate to immediate termination. On
exit it writes a structured run report to logs/.`,
	SilenceUsage:          true,
	SilenceErrors:         true,
	Args:                  cobra.MinimumNArgs(1),
	DisableFlagsInUseLine: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
	RunE: runLaunch,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM, so an
// operator interrupt forwards to the sandboxed child rather than
// vanishing silently. It does not cancel the supervisor's own
// bookkeeping; the child's resulting exit still flows through the
// normal reap path.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalProfile, "profile", "STRICT", "isolation profile: STRICT, RESOURCE-AWARE, or LEARNING")
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "set the log file path")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")

	// The target executable's own flags must never be parsed as
	// sandrun's: stop at the first positional argument (the target
	// path) and hand everything from there on through untouched.
	rootCmd.Flags().SetInterspersed(false)
}

func setupLogging() {
	logOutput := os.Stderr
	if globalLog != "" {
		f, err := os.OpenFile(globalLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err == nil {
			logOutput = f
		}
	}

	logLevel := slog.LevelInfo
	if globalDebug {
		logLevel = slog.LevelDebug
	}

	logger := logging.NewLogger(logging.Config{
		Level:  logLevel,
		Format: globalLogFormat,
		Output: logOutput,
	})
	logging.SetDefault(logger)
}

// runLaunch is the default command body: parse --profile, resolve the
// target executable, drive the supervisor to completion, and emit the
// run report. Exit codes: 0 on clean supervision regardless of the
// child's own fate, 1 on setup failure.
func runLaunch(cmd *cobra.Command, args []string) error {
	profile, ok := policy.ParseProfile(globalProfile)
	if !ok {
		fmt.Fprintf(os.Stderr, "sandrun: unknown profile %q, falling back to STRICT\n", globalProfile)
	}

	target, err := resolveTarget(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sandrun: preparing execution environment (profile: %s)...\n", profile.String())

	rec, err := supervisor.Run(GetContext(), supervisor.Options{
		Profile: profile,
		Target:  target,
		Args:    args,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sandrun: child exited: %s\n", rec.ExitReason.String())

	path, err := report.Emit(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: failed to write run report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sandrun: report written to %s\n", path)

	return nil
}

// resolveTarget turns the user-supplied executable argument into an
// absolute path, searching PATH if it has no directory component.
func resolveTarget(arg string) (string, error) {
	if filepath.IsAbs(arg) {
		return arg, nil
	}
	if filepath.Base(arg) != arg {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", fmt.Errorf("resolve target %q: %w", arg, err)
		}
		return abs, nil
	}
	resolved, err := exec.LookPath(arg)
	if err != nil {
		return "", fmt.Errorf("target %q not found: %w", arg, err)
	}
	return resolved, nil
}
