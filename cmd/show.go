package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// showCmd represents the show command.
var showCmd = newShowCmd()

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <module> <name> <id>",
		Short: "Show the diff of a stored mutant",
		Long:  "Print a unified diff of a stored mutant against the source file it was generated from.",
		Args:  usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMutantID(args[2])
			if err != nil {
				return err
			}

			_, err = workflow.Show(cmd.Context(), domain.ShowArgs{
				Project: m.Path(viper.GetString(projectKey)),
				Store:   m.Path(viper.GetString(storeKey)),
				Module:  args[0],
				Name:    args[1],
				ID:      id,
			})

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func parseMutantID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: mutant id %q is not a non-negative integer", errUsage, value)
	}

	return id, nil
}
