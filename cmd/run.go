package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var (
	runTimeoutFlag          time.Duration
	runCommandFlag          string
	runIncludeDroppedFlag   bool
	runResetVCSFlag         bool
	runInPlaceFlag          bool
	runShardFlag            string
	runResumeFlag           bool
	runMetricsFileFlag      string
	runRespectGitignoreFlag bool
	runCopyExcludeFlag      []string
	runIDFlag               string
)

const runLongDescription = `Run the test command against every selected stored mutant. Each worker
stages a copy of the project, writes the mutant into it and runs the tests.
A mutant is caught when the tests fail, missed when they pass, and timed out
when they exceed --timeout. Results go to test-result.json.

The command defaults to pytest for Python projects and "go test ./..." for Go
projects. In --in-place mode the project itself is tested and the command
receives the mutant path through the {mutant} placeholder.

` + selectorHelp

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"test"},
		Short:   "Test the stored mutants",
		Long:    runLongDescription,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			shardIndex, shardCount, err := parseShardFlag(runShardFlag)
			if err != nil {
				return err
			}

			runID := runIDFlag
			if runID == "" {
				runID = uuid.NewString()
			}

			return withTracing(cmd, func(ctx context.Context) error {
				_, err := workflow.Test(ctx, domain.TestArgs{
					Project:          m.Path(viper.GetString(projectKey)),
					Store:            m.Path(viper.GetString(storeKey)),
					Output:           m.Path(viper.GetString(reportDirKey)),
					Jobs:             viper.GetInt(jobsKey),
					Timeout:          viper.GetDuration(timeoutKey),
					Command:          strings.Fields(viper.GetString(commandKey)),
					Filter:           viper.GetStringSlice(filterKey),
					IncludeDropped:   runIncludeDroppedFlag,
					ShardIndex:       shardIndex,
					ShardCount:       shardCount,
					Resume:           runResumeFlag,
					InPlace:          runInPlaceFlag,
					ResetVCS:         viper.GetBool(resetVCSKey),
					RespectGitignore: viper.GetBool(respectGitignoreKey),
					CopyExclude:      viper.GetStringSlice(copyExcludeKey),
					MetricsFile:      viper.GetString(metricsFileKey),
					RunID:            runID,
				})

				return err
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.DurationVarP(&runTimeoutFlag, timeoutFlagName, "t", defaultTimeout, "timeout of one test command")
	bindFlagToConfig(flags.Lookup(timeoutFlagName), timeoutKey)

	flags.StringVar(&runCommandFlag, commandFlagName, "", "test command (default: detected from the project language)")
	bindFlagToConfig(flags.Lookup(commandFlagName), commandKey)

	flags.BoolVar(&runResetVCSFlag, resetVCSFlagName, false, "reset tracked files with git before every test")
	bindFlagToConfig(flags.Lookup(resetVCSFlagName), resetVCSKey)

	flags.StringVar(&runMetricsFileFlag, metricsFileFlagName, "", "write Prometheus metrics in text format to this file")
	bindFlagToConfig(flags.Lookup(metricsFileFlagName), metricsFileKey)

	flags.BoolVar(&runRespectGitignoreFlag, respectGitignoreFlagName, defaultRespectGitignore, "skip files ignored by .gitignore when staging copies")
	bindFlagToConfig(flags.Lookup(respectGitignoreFlagName), respectGitignoreKey)

	flags.StringSliceVar(&runCopyExcludeFlag, copyExcludeFlagName, nil, "gitignore patterns skipped when staging copies (default: .git, out, node_modules, ...)")
	bindFlagToConfig(flags.Lookup(copyExcludeFlagName), copyExcludeKey)

	flags.BoolVar(&runIncludeDroppedFlag, includeDroppedFlagName, false, "also test mutants dropped as equivalent")
	flags.BoolVar(&runInPlaceFlag, inPlaceFlagName, false, "test the project directory itself (requires --jobs 1)")
	flags.StringVarP(&runShardFlag, shardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
	flags.BoolVar(&runResumeFlag, resumeFlagName, false, "skip mutants with a result in the previous report or journal")
	flags.StringVar(&runIDFlag, "run-id", "", "identifier of this run's journal (default: random)")
}

func parseShardFlag(shard string) (int, int, error) {
	if shard == "" {
		return 0, 1, nil
	}

	indexText, totalText, found := strings.Cut(shard, "/")

	index, indexErr := strconv.Atoi(indexText)
	total, totalErr := strconv.Atoi(totalText)

	if !found || indexErr != nil || totalErr != nil || total <= 0 || index < 0 || index >= total {
		return 0, 0, fmt.Errorf("%w: invalid --%s %q, want INDEX/TOTAL with 0 <= INDEX < TOTAL", errUsage, shardFlagName, shard)
	}

	return index, total, nil
}
