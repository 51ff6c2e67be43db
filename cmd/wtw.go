package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

var wtwTestTimeoutFlag time.Duration

// wtwCmd represents the wtw command.
var wtwCmd = newWhoTestsWhatCmd()

func newWhoTestsWhatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wtw [packages...]",
		Short: "Build a who-tests-what mapping",
		Long: `Run every test of the given packages (default: ./...) on its own with a
cover profile and record which source lines it executes. The mapping is
written to the --wtw path (default: .mutest-wtw.yaml) and lets run skip
tests that cannot reach a mutated line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := m.Path(viper.GetString(wtwFileConfigKey))
			if output == "" {
				output = domain.DefaultWhoTestsWhatFile
			}

			return workflow.BuildWhoTestsWhat(cmd.Context(), domain.WhoTestsWhatArgs{
				SourceRoot: m.Path("."),
				Packages:   args,
				Output:     output,
				Timeout:    viper.GetDuration(testTimeoutConfigKey),
			})
		},
	}

	cmd.Flags().DurationVar(&wtwTestTimeoutFlag, testTimeoutFlagName, viper.GetDuration(testTimeoutConfigKey), "timeout for each single-test run")
	bindFlagToConfig(cmd.Flags().Lookup(testTimeoutFlagName), testTimeoutConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(wtwCmd)
}
