package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/avatar"
	"github.com/abhisek/studyquest/internal/rewards"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, streak and daily quests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		u, err := d.requireProfile(ctx)
		if err != nil {
			return err
		}
		p, err := d.lessons.Progress(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s (%s)\n", u.DisplayName, avatar.Describe(u.Avatar))
		fmt.Fprintf(w, "XP:          %d\n", u.XP)
		fmt.Fprintf(w, "Streak:      %d days (next goal %d)\n", u.Streak, rewards.NextStreakMilestone(u.Streak))
		fmt.Fprintf(w, "Daily goal:  %g hours\n", u.DailyGoalHours)
		fmt.Fprintf(w, "Levels:      %d/%d\n", p.Done, p.Total)
		if p.Current != nil {
			fmt.Fprintf(w, "Up next:     %s (%s)\n", p.Current.Title, p.Current.ID)
		}
		if !u.LastStudyDate.IsZero() {
			fmt.Fprintf(w, "Last study:  %s\n", u.LastStudyDate.Local().Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w, "\nDaily quests")
		printQuests(w, rewards.DailyQuests(u, time.Now()))
		return nil
	},
}
