package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/studyquest/internal/app"
	"github.com/abhisek/studyquest/internal/rewards"
	setupscreen "github.com/abhisek/studyquest/internal/screens/setup"
)

// runApp launches the TUI, or prints the map when stdout is not a terminal.
func runApp(cmd *cobra.Command) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	d, err := openDeps(cmd, interactive)
	if err != nil {
		return err
	}
	defer d.close()

	if !interactive {
		return printMap(cmd.Context(), cmd.OutOrStdout(), d)
	}

	nav := &app.Navigator{
		Profiles: d.profiles,
		Lessons:  d.lessons,
		Focus:    d.focus,
		Setup:    d.setup,
		Tutor:    d.tutor,
		Defaults: setupscreen.Defaults{
			Days:  d.cfg.Setup.DefaultDays,
			Hours: d.cfg.Setup.DefaultDailyHours,
		},
	}
	return app.Run(cmd.Context(), app.Options{Navigator: nav, Logger: d.logger})
}

// printMap writes the profile summary and the lesson list as plain text.
func printMap(ctx context.Context, w io.Writer, d *deps) error {
	u, err := d.profiles.Get(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintln(w, "No study world yet. Run `studyquest setup` or start studyquest in a terminal.")
		return nil
	}
	fmt.Fprintf(w, "%s  ⚡ %d XP  🔥 %d day streak (next goal %d)\n\n",
		u.DisplayName, u.XP, u.Streak, rewards.NextStreakMilestone(u.Streak))
	return printLessons(ctx, w, d)
}

func printLessons(ctx context.Context, w io.Writer, d *deps) error {
	ls, err := d.lessons.ListLessons(ctx)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}
	if len(ls) == 0 {
		fmt.Fprintln(w, "No lessons.")
		return nil
	}
	t := cliTable("", "Level", "Title", "ID")
	for _, l := range ls {
		t.Row(l.Status.Icon(), strconv.Itoa(l.Order+1), clip(l.Title, 48), l.ID)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

// printQuests writes the daily quest board.
func printQuests(w io.Writer, quests []rewards.Quest) {
	for _, q := range quests {
		mark := "[ ]"
		if q.Done() {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %s %-24s %d/%d\n", mark, q.Title, q.Progress, q.Target)
	}
}
