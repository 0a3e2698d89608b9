package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// annotateCmd represents the annotate command.
var annotateCmd = newAnnotateCmd()

func newAnnotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotate <module> <name> <id> <annotation>",
		Short: "Add an annotation to a stored mutant",
		Long: `Record an annotation in the metadata of a stored mutant. Annotations are
counted as extra columns by the stats command.`,
		Args: usageArgs(cobra.ExactArgs(4)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMutantID(args[2])
			if err != nil {
				return err
			}

			return workflow.Annotate(cmd.Context(), domain.AnnotateArgs{
				Store:      m.Path(viper.GetString(storeKey)),
				Module:     args[0],
				Name:       args[1],
				ID:         id,
				Annotation: args[3],
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}
