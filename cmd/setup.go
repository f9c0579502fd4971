package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/avatar"
	"github.com/abhisek/studyquest/internal/setup"
	"github.com/abhisek/studyquest/internal/syllabus"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create your profile and study world without the TUI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		text, _ := cmd.Flags().GetString("syllabus")
		if file, _ := cmd.Flags().GetString("syllabus-file"); file != "" {
			if text != "" {
				return errors.New("use either --syllabus or --syllabus-file")
			}
			text, err = syllabus.Load(file)
			if err != nil {
				return err
			}
		}

		in := setup.Input{Syllabus: text}
		in.Days, _ = cmd.Flags().GetInt("days")
		in.DailyGoalHours, _ = cmd.Flags().GetFloat64("hours")
		in.HardestSubject, _ = cmd.Flags().GetString("hardest")
		in.FavoriteSubject, _ = cmd.Flags().GetString("favorite")
		in.AvatarDescription, _ = cmd.Flags().GetString("avatar")
		if in.Days == 0 {
			in.Days = d.cfg.Setup.DefaultDays
		}
		if in.DailyGoalHours == 0 {
			in.DailyGoalHours = d.cfg.Setup.DefaultDailyHours
		}

		res, err := d.setup.Run(cmd.Context(), in)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if res.Fallback {
			fmt.Fprintln(os.Stderr, "AI lesson generation unavailable, using the starter plan:", res.Cause)
		}
		fmt.Fprintf(w, "Welcome, %s! Avatar: %s\n\n", res.User.DisplayName, avatar.Describe(res.User.Avatar))
		return printLessons(cmd.Context(), w, d)
	},
}

func init() {
	setupCmd.Flags().String("syllabus", "", "Syllabus text")
	setupCmd.Flags().String("syllabus-file", "", "Read the syllabus from a .txt, .md or .pdf file")
	setupCmd.Flags().Int("days", 0, "Days until the exam (default from config)")
	setupCmd.Flags().Float64("hours", 0, "Study hours per day (default from config)")
	setupCmd.Flags().String("hardest", "", "Hardest subject")
	setupCmd.Flags().String("favorite", "", "Favorite subject")
	setupCmd.Flags().String("avatar", "", "Describe your avatar")
}
