package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/controller"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var (
	statsGroupByFlag       []string
	statsFormatFlag        string
	statsShowDroppedFlag   bool
	statsOnlyAnnotatedFlag bool
)

const statsLongDescription = `Count the stored mutants and the outcomes of the last test run.

Rows are grouped by the metadata fields given to --group-by: generator,
configName, language, file and runId. Annotations become extra columns.`

// statsCmd represents the stats command.
var statsCmd = newStatsCmd()

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored mutants and test outcomes",
		Long:  statsLongDescription,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := workflow.Stats(cmd.Context(), domain.StatsArgs{
				Store:         m.Path(viper.GetString(storeKey)),
				Output:        m.Path(viper.GetString(reportDirKey)),
				GroupBy:       viper.GetStringSlice(groupByKey),
				ShowDropped:   statsShowDroppedFlag,
				OnlyAnnotated: statsOnlyAnnotatedFlag,
				Format:        controller.StatsFormat(viper.GetString(formatKey)),
			})

			return err
		},
	}

	configureStatsFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func configureStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&statsGroupByFlag, groupByFlagName, nil, "metadata fields to group by")
	bindFlagToConfig(cmd.Flags().Lookup(groupByFlagName), groupByKey)

	cmd.Flags().StringVar(&statsFormatFlag, formatFlagName, defaultFormat, "output format (table, csv)")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatKey)

	cmd.Flags().BoolVar(&statsShowDroppedFlag, showDroppedFlagName, false, "count outcomes and annotations of dropped mutants")
	cmd.Flags().BoolVar(&statsOnlyAnnotatedFlag, onlyAnnotatedFlagName, false, "count annotated mutants only")
}
