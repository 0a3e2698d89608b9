package cmd

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/generator"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

const dirGeneratorName = "dir"

var (
	generatorsFlag  []string
	configNameFlag  string
	configFileFlag  string
	candidatesFlag  string
	sourceRootFlag  string
	forceFlag       bool
	generateRunFlag string
)

const generateLongDescription = `Scan the project for functions and methods, run the selected generators
on every selected target and store the candidates in the mutant store.
Candidates equivalent to the original or to an earlier candidate of the
same target are stored as dropped.

` + selectorHelp

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate mutants for the selected targets",
		Long:  generateLongDescription,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := generator.LoadConfigs(viper.GetString(generatorConfigsKey))
			if err != nil {
				return err
			}

			configName := viper.GetString(generatorConfigKey)
			generators := viper.GetStringSlice(generatorsKey)

			if slices.Contains(generators, dirGeneratorName) {
				configs = withCandidateDir(configs, configName, viper.GetString(candidatesKey))
			}

			runID := generateRunFlag
			if runID == "" {
				runID = uuid.NewString()
			}

			return withTracing(cmd, func(ctx context.Context) error {
				_, err := workflow.Generate(ctx, domain.GenerateArgs{
					Project:    m.Path(viper.GetString(projectKey)),
					SourceRoot: m.Path(viper.GetString(sourceRootKey)),
					Store:      m.Path(viper.GetString(storeKey)),
					Generators: generators,
					ConfigName: configName,
					Configs:    configs,
					Filter:     viper.GetStringSlice(filterKey),
					Force:      forceFlag,
					Jobs:       viper.GetInt(jobsKey),
					RunID:      runID,
				})

				return err
			})
		},
	}

	configureGenerateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&generatorsFlag, generatorFlagName, "g", defaultGenerators, "generators to run (identity, operator, dir)")
	bindFlagToConfig(cmd.Flags().Lookup(generatorFlagName), generatorsKey)

	cmd.Flags().StringVar(&configNameFlag, configNameFlagName, generator.DefaultConfigName, "generator config preset")
	bindFlagToConfig(cmd.Flags().Lookup(configNameFlagName), generatorConfigKey)

	cmd.Flags().StringVar(&configFileFlag, configFileFlagName, "", "YAML file with additional generator config presets")
	bindFlagToConfig(cmd.Flags().Lookup(configFileFlagName), generatorConfigsKey)

	cmd.Flags().StringVar(&candidatesFlag, candidatesFlagName, defaultCandidatesDir, "candidate directory read by the dir generator")
	bindFlagToConfig(cmd.Flags().Lookup(candidatesFlagName), candidatesKey)

	cmd.Flags().StringVar(&sourceRootFlag, sourceRootFlagName, "", "source root relative to the project (default: src when present)")
	bindFlagToConfig(cmd.Flags().Lookup(sourceRootFlagName), sourceRootKey)

	cmd.Flags().BoolVar(&forceFlag, forceFlagName, false, "add to a mutant store that is not empty")
	cmd.Flags().StringVar(&generateRunFlag, "run-id", "", "identifier recorded in the metadata of every mutant (default: random)")
}

// withCandidateDir sets the "dir" option of the selected preset unless the
// preset already names one.
func withCandidateDir(configs generator.Configs, name, dir string) generator.Configs {
	cfg, ok := configs[name]
	if !ok || dir == "" {
		return configs
	}

	if _, set := cfg.Options["dir"]; set {
		return configs
	}

	options := make(map[string]any, len(cfg.Options)+1)
	maps.Copy(options, cfg.Options)
	options["dir"] = dir
	cfg.Options = options

	out := maps.Clone(configs)
	out[name] = cfg

	return out
}
