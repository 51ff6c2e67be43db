package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

var runTestCmdFlag string
var runNLocationsFlag int
var runSeedFlag uint64
var runBreakSurvivalFlag bool
var runBreakDetectedFlag bool
var runBreakErrorFlag bool
var runBreakUnknownFlag bool
var runMutationTimeoutFlag time.Duration
var runCleanCacheFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run mutation trials",
		Long:  runLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runArgs, err := buildRunArgs(args)
			if err != nil {
				return err
			}

			_, err = workflow.Run(cmd.Context(), runArgs)

			return err
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runTestCmdFlag, testCmdFlagName, "t", viper.GetString(testCmdConfigKey), "test command run for every trial")
	bindFlagToConfig(cmd.Flags().Lookup(testCmdFlagName), testCmdConfigKey)

	cmd.Flags().IntVarP(&runNLocationsFlag, nlocationsFlagName, "n", 0, "number of locations to sample (default: all)")
	bindFlagToConfig(cmd.Flags().Lookup(nlocationsFlagName), nlocationsConfigKey)

	cmd.Flags().Uint64Var(&runSeedFlag, seedFlagName, 0, "random seed for sampling (default: from the clock)")
	bindFlagToConfig(cmd.Flags().Lookup(seedFlagName), seedConfigKey)

	cmd.Flags().BoolVar(&runBreakSurvivalFlag, breakSurvivalFlagName, viper.GetBool(breakSurvivalConfigKey), "stop a location at its first surviving mutant")
	bindFlagToConfig(cmd.Flags().Lookup(breakSurvivalFlagName), breakSurvivalConfigKey)

	cmd.Flags().BoolVar(&runBreakDetectedFlag, breakDetectedFlagName, viper.GetBool(breakDetectedConfigKey), "stop a location at its first detected mutant")
	bindFlagToConfig(cmd.Flags().Lookup(breakDetectedFlagName), breakDetectedConfigKey)

	cmd.Flags().BoolVar(&runBreakErrorFlag, breakErrorFlagName, viper.GetBool(breakErrorConfigKey), "stop a location at its first erroring trial")
	bindFlagToConfig(cmd.Flags().Lookup(breakErrorFlagName), breakErrorConfigKey)

	cmd.Flags().BoolVar(&runBreakUnknownFlag, breakUnknownFlagName, viper.GetBool(breakUnknownConfigKey), "stop a location at its first trial with unknown outcome")
	bindFlagToConfig(cmd.Flags().Lookup(breakUnknownFlagName), breakUnknownConfigKey)

	cmd.Flags().DurationVar(&runMutationTimeoutFlag, mutationTimeoutFlagName, viper.GetDuration(mutationTimeoutKey), "timeout for a single trial (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(mutationTimeoutFlagName), mutationTimeoutKey)

	cmd.Flags().BoolVar(&runCleanCacheFlag, cleanCacheFlagName, viper.GetBool(cleanCacheConfigKey), "clean the go test cache before the clean trial")
	bindFlagToConfig(cmd.Flags().Lookup(cleanCacheFlagName), cleanCacheConfigKey)
}

func buildRunArgs(args []string) (domain.RunArgs, error) {
	testCmd, err := parseTestCmd(viper.GetString(testCmdConfigKey))
	if err != nil {
		return domain.RunArgs{}, err
	}

	var locations *int
	if viper.IsSet(nlocationsConfigKey) {
		n := viper.GetInt(nlocationsConfigKey)
		locations = &n
	}

	seed := uint64(time.Now().UnixNano())
	if viper.IsSet(seedConfigKey) {
		seed = viper.GetUint64(seedConfigKey)
	}

	return domain.RunArgs{
		SourceRoot:  parseRoot(args),
		TestCommand: testCmd,
		Exclude:     parsePaths(viper.GetStringSlice(excludeConfigKey)),
		Locations:   locations,
		Seed:        seed,
		Break: domain.BreakPolicy{
			OnSurvival: viper.GetBool(breakSurvivalConfigKey),
			OnDetected: viper.GetBool(breakDetectedConfigKey),
			OnError:    viper.GetBool(breakErrorConfigKey),
			OnUnknown:  viper.GetBool(breakUnknownConfigKey),
		},
		IgnoreCoverage:   viper.GetBool(ignoreCoverageConfigKey),
		CoverageFile:     m.Path(viper.GetString(coverageFileConfigKey)),
		WhoTestsWhatFile: m.Path(viper.GetString(wtwFileConfigKey)),
		MutationTimeout:  viper.GetDuration(mutationTimeoutKey),
		CleanCache:       viper.GetBool(cleanCacheConfigKey),
		Reports:          m.Path(viper.GetString(outputFlagName)),
	}, nil
}

func parseTestCmd(value string) ([]string, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty test command")
	}

	return fields, nil
}
