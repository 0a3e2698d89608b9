package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <report>...",
		Short: "Merge sharded reports into a single report",
		Long: `Combine the test-result.json of several shards. Each argument is a report
file or a directory holding one. The merged report is written to --report-dir,
or to the mutant store when it is not set.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := viper.GetString(reportDirKey)
			if output == "" {
				output = viper.GetString(storeKey)
			}

			_, err := workflow.Merge(cmd.Context(), domain.MergeArgs{
				Inputs: parsePaths(args),
				Output: m.Path(output),
			})

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
