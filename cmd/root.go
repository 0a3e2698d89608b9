// Package cmd provides the root command and CLI setup for mutator.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/controller"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/generator"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var syntaxAdapter adapter.SyntaxAdapter
var testAdapter adapter.TestRunnerAdapter
var vcsAdapter adapter.VCSAdapter
var reportStore adapter.ReportStore
var metrics *domain.Metrics
var workflow domain.Workflow
var ui controller.UI

// Shared flags. Commands read the bound viper keys, not these.
var (
	projectFlag   string
	storeFlag     string
	reportDirFlag string
	filterFlag    []string
	jobsFlag      int
	traceFileFlag string
	verboseFlag   bool
	logFileFlag   string
)

// errUsage marks command line mistakes.
var errUsage = errors.New("usage error")

// Exit codes of the CLI.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitStoreExists = 3
	exitInterrupted = 130
)

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	syntaxAdapter = adapter.NewTreeSitterAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	vcsAdapter = adapter.NewGitAdapter()
	reportStore = adapter.NewFileReportStore(fsAdapter)
	metrics = domain.NewMetrics()
	workflow = domain.NewWorkflow(
		fsAdapter,
		syntaxAdapter,
		testAdapter,
		vcsAdapter,
		reportStore,
		ui,
		generator.Default(fsAdapter, defaultCandidatesDir),
		domain.WithMetrics(metrics),
	)
}

const selectorHelp = `Targets are selected with --filter MODULE:NAME patterns where "*" matches
any run of characters, dots included. A pattern without ":" matches every
target of the modules it names, and a pattern starting with "!" excludes.
Without any include pattern every target is selected, so --filter '!tests.*'
alone selects everything outside the tests package.`

const rootLongDescription = `mutator is a mutation testing harness for Python and Go projects. It
generates mutants of selected functions and methods, drops those that are
equivalent to the original, and runs the project's tests against each
remaining mutant to report which ones the tests miss.

` + selectorHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func baseRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mutator",
		Short:         "Mutation testing harness",
		Long:          rootLongDescription,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&projectFlag, projectFlagName, "C", ".", "project directory to mutate and test")
	bindFlagToConfig(flags.Lookup(projectFlagName), projectKey)

	flags.StringVarP(&storeFlag, storeFlagName, "o", defaultStoreDir, "mutant store directory")
	bindFlagToConfig(flags.Lookup(storeFlagName), storeKey)

	flags.StringVar(&reportDirFlag, reportDirFlagName, "", "directory of test-result.json (default: the mutant store)")
	bindFlagToConfig(flags.Lookup(reportDirFlagName), reportDirKey)

	flags.StringArrayVarP(&filterFlag, filterFlagName, "f", nil, "select targets by MODULE:NAME pattern, \"!\" excludes (can be repeated; default: all targets)")
	bindFlagToConfig(flags.Lookup(filterFlagName), filterKey)

	flags.IntVarP(&jobsFlag, jobsFlagName, "j", defaultJobs, "number of parallel workers")
	bindFlagToConfig(flags.Lookup(jobsFlagName), jobsKey)

	flags.StringVar(&traceFileFlag, traceFileFlagName, "", "write OpenTelemetry spans to this file")
	bindFlagToConfig(flags.Lookup(traceFileFlagName), traceFileKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}

		return nil
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, domain.ErrStoreNotClean):
		return exitStoreExists
	case errors.Is(err, errUsage), errors.Is(err, domain.ErrInvalidArgs):
		return exitUsage
	default:
		return exitFailure
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the running command, which still writes what it
// collected.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "mutator: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// withTracing runs fn with the trace exporter configured by --trace-file.
func withTracing(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	shutdown, err := setupTracing(viper.GetString(traceFileKey))
	if err != nil {
		return err
	}

	runErr := fn(cmd.Context())

	if err := shutdown(context.WithoutCancel(cmd.Context())); err != nil {
		return errors.Join(runErr, err)
	}

	return runErr
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
