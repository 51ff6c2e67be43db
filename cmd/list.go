package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/mutest/internal/domain"
	m "gooze.dev/pkg/mutest/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List source files and mutable location counts",
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.List(cmd.Context(), domain.ListArgs{
				SourceRoot:       parseRoot(args),
				Exclude:          parsePaths(viper.GetStringSlice(excludeConfigKey)),
				IgnoreCoverage:   viper.GetBool(ignoreCoverageConfigKey),
				CoverageFile:     m.Path(viper.GetString(coverageFileConfigKey)),
				WhoTestsWhatFile: m.Path(viper.GetString(wtwFileConfigKey)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
