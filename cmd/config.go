package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/controller"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/generator"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutator"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "MUTATOR"

	// Shared flags.
	projectFlagName   = "chdir"
	storeFlagName     = "out-dir"
	reportDirFlagName = "report-dir"
	filterFlagName    = "filter"
	jobsFlagName      = "jobs"
	traceFileFlagName = "trace-file"
	verboseFlagName   = "verbose"
	logFileFlagName   = "log-file"

	projectKey   = "project"
	storeKey     = "store"
	reportDirKey = "report_dir"
	filterKey    = "filter"
	jobsKey      = "jobs"
	traceFileKey = "telemetry.trace_file"

	// generate.
	generatorFlagName    = "generator"
	configNameFlagName   = "config"
	configFileFlagName   = "generator-config"
	candidatesFlagName   = "candidates"
	sourceRootFlagName   = "source-root"
	forceFlagName        = "force"
	generatorsKey        = "generate.generators"
	generatorConfigKey   = "generate.config"
	generatorConfigsKey  = "generate.config_file"
	candidatesKey        = "generate.candidates"
	sourceRootKey        = "generate.source_root"
	defaultStoreDir      = "out/mutants"
	defaultCandidatesDir = "out/candidates"

	// run.
	timeoutFlagName          = "timeout"
	commandFlagName          = "command"
	includeDroppedFlagName   = "include-dropped"
	resetVCSFlagName         = "reset-vcs"
	inPlaceFlagName          = "in-place"
	shardFlagName            = "shard"
	resumeFlagName           = "resume"
	metricsFileFlagName      = "metrics-file"
	respectGitignoreFlagName = "respect-gitignore"
	copyExcludeFlagName      = "copy-exclude"
	timeoutKey               = "run.timeout"
	commandKey               = "run.command"
	resetVCSKey              = "run.reset_vcs"
	metricsFileKey           = "run.metrics_file"
	respectGitignoreKey      = "run.respect_gitignore"
	copyExcludeKey           = "run.copy_exclude"
	defaultTimeout           = time.Minute
	defaultRespectGitignore  = true

	// stats.
	groupByFlagName       = "group-by"
	formatFlagName        = "format"
	showDroppedFlagName   = "show-dropped"
	onlyAnnotatedFlagName = "only-annotated"
	groupByKey            = "stats.group_by"
	formatKey             = "stats.format"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutator.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	defaultJobs       = runtime.NumCPU()
	defaultGenerators = []string{"operator"}
	defaultFormat     = string(controller.StatsTable)
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(projectKey, ".")
	viper.SetDefault(storeKey, defaultStoreDir)
	viper.SetDefault(reportDirKey, "")
	viper.SetDefault(filterKey, []string{})
	viper.SetDefault(jobsKey, defaultJobs)
	viper.SetDefault(traceFileKey, "")

	viper.SetDefault(generatorsKey, defaultGenerators)
	viper.SetDefault(generatorConfigKey, generator.DefaultConfigName)
	viper.SetDefault(generatorConfigsKey, "")
	viper.SetDefault(candidatesKey, defaultCandidatesDir)
	viper.SetDefault(sourceRootKey, "")

	viper.SetDefault(timeoutKey, defaultTimeout.String())
	viper.SetDefault(commandKey, "")
	viper.SetDefault(resetVCSKey, false)
	viper.SetDefault(metricsFileKey, "")
	viper.SetDefault(respectGitignoreKey, defaultRespectGitignore)
	viper.SetDefault(copyExcludeKey, adapter.DefaultCopyExclude)

	viper.SetDefault(groupByKey, []string{})
	viper.SetDefault(formatKey, defaultFormat)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		fmt.Fprintf(os.Stderr, "mutator: ignoring %s: %v\n", configFileName, err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
