// Package cmd provides the root command and CLI setup for mutest.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/adapter"
	"gooze.dev/pkg/mutest/internal/controller"
	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var testAdapter adapter.TestRunnerAdapter
var coverageAdapter adapter.CoverageAdapter
var reportStore adapter.ReportStore
var wtwStore adapter.WhoTestsWhatStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePaths is a root-level flag that removes files from scanning.
var excludePaths []string

var verboseFlag bool
var logFileFlag string
var ignoreCoverageFlag bool
var coverageFileFlag string
var wtwFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	coverageAdapter = adapter.NewLocalCoverageAdapter()
	reportStore = adapter.NewReportStore()
	wtwStore = adapter.NewLocalWhoTestsWhatStore()
	workflow = domain.NewWorkflow(
		fsAdapter,
		goFileAdapter,
		testAdapter,
		coverageAdapter,
		reportStore,
		wtwStore,
		ui,
	)
}

const pathPatternsHelp = `Accepts a single source root:
  - ./...          recursively scan the current directory
  - ./pkg/...      recursively scan the pkg directory
  - ./pkg/calc.go  mutate a single file`

const rootLongDescription = `mutest is a mutation testing tool for Go. It samples mutable locations in
your source, applies operator mutations one at a time inside a temporary copy
of the module, and runs your test command to see whether the tests notice.

` + pathPatternsHelp

const runLongDescription = `Run mutation trials for the given source root (default: ./...).

A clean test run must pass first. Locations are restricted to covered lines
when a coverage profile or who-tests-what mapping is available, then sampled.

` + pathPatternsHelp

const listLongDescription = `List source files and the number of mutable locations in each.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutest",
		Short: "Go mutation testing tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePaths, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude a source file from mutation (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVar(&ignoreCoverageFlag, ignoreCoverageFlagName, viper.GetBool(ignoreCoverageConfigKey), "do not restrict mutations to covered lines")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(ignoreCoverageFlagName), ignoreCoverageConfigKey)

	cmd.PersistentFlags().StringVar(&coverageFileFlag, coverageFileFlagName, viper.GetString(coverageFileConfigKey), "cover profile used to restrict mutations")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(coverageFileFlagName), coverageFileConfigKey)

	cmd.PersistentFlags().StringVar(&wtwFileFlag, wtwFileFlagName, viper.GetString(wtwFileConfigKey), "who-tests-what mapping used to deselect tests")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(wtwFileFlagName), wtwFileConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func parseRoot(args []string) m.Path {
	if len(args) == 0 {
		return m.Path("./...")
	}

	return m.Path(args[0])
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
