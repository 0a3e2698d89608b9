package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Print the mutator build version, the Go version and the supported languages.",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("mutator version\t", buildVersion())

			if info, ok := debug.ReadBuildInfo(); ok {
				cmd.Println("go version\t", info.GoVersion)
			}

			cmd.Println("languages\t", "python, go")
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
