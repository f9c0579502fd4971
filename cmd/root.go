package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "studyquest",
	Short:        "Gamified study planner",
	Long:         "StudyQuest turns a syllabus into a map of levels you clear with timed focus sessions, earning XP and keeping a daily streak.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite file or postgres:// DSN (overrides STUDYQUEST_DB and config)")
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (overrides STUDYQUEST_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
