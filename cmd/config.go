package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutest"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName          = "output"
	excludeFlagName         = "exclude"
	verboseFlagName         = "verbose"
	logFileFlagName         = "log-file"
	ignoreCoverageFlagName  = "ignore-coverage"
	coverageFileFlagName    = "coverage-file"
	wtwFileFlagName         = "wtw"
	testCmdFlagName         = "test-cmd"
	nlocationsFlagName      = "nlocations"
	seedFlagName            = "seed"
	breakSurvivalFlagName   = "break-on-survival"
	breakDetectedFlagName   = "break-on-detected"
	breakErrorFlagName      = "break-on-error"
	breakUnknownFlagName    = "break-on-unknown"
	mutationTimeoutFlagName = "mutation-timeout"
	cleanCacheFlagName      = "clean-cache"
	testTimeoutFlagName     = "test-timeout"

	excludeConfigKey        = "paths.exclude"
	testCmdConfigKey        = "run.test_cmd"
	nlocationsConfigKey     = "run.nlocations"
	seedConfigKey           = "run.seed"
	breakSurvivalConfigKey  = "run.break_on_survival"
	breakDetectedConfigKey  = "run.break_on_detected"
	breakErrorConfigKey     = "run.break_on_error"
	breakUnknownConfigKey   = "run.break_on_unknown"
	mutationTimeoutKey      = "run.mutation_timeout"
	cleanCacheConfigKey     = "run.clean_cache"
	ignoreCoverageConfigKey = "coverage.ignore"
	coverageFileConfigKey   = "coverage.file"
	wtwFileConfigKey        = "wtw.file"
	testTimeoutConfigKey    = "wtw.test_timeout"

	defaultMutationTimeout = time.Minute * 2
	defaultTestTimeout     = time.Minute * 5

	defaultReportsDir    = ".mutest-reports"
	defaultTestCmd       = "go test ./..."
	defaultCoverageFile  = "coverage.out"
	defaultBreakSurvival = true
	defaultCleanCache    = true

	envPrefix = "MUTEST"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutest.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
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
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(testCmdConfigKey, defaultTestCmd)
	viper.SetDefault(breakSurvivalConfigKey, defaultBreakSurvival)
	viper.SetDefault(breakDetectedConfigKey, false)
	viper.SetDefault(breakErrorConfigKey, false)
	viper.SetDefault(breakUnknownConfigKey, false)
	viper.SetDefault(mutationTimeoutKey, defaultMutationTimeout)
	viper.SetDefault(cleanCacheConfigKey, defaultCleanCache)
	viper.SetDefault(ignoreCoverageConfigKey, false)
	viper.SetDefault(coverageFileConfigKey, defaultCoverageFile)
	viper.SetDefault(wtwFileConfigKey, "")
	viper.SetDefault(testTimeoutConfigKey, defaultTestTimeout)

	// run.nlocations and run.seed have no default: unset means "all
	// locations" and "seed from the clock".

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
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
// By default it logs at the configured level; if verbose is true it logs at Debug.
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
