package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/focus"
)

var focusCmd = &cobra.Command{
	Use:   "focus <lesson-id>",
	Short: "Run a focus session on a lesson in the terminal",
	Long:  "Counts down a focus session on the lesson. Ctrl+C gives up without rewards.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var length time.Duration
		if m, _ := cmd.Flags().GetFloat64("minutes"); m > 0 {
			length = time.Duration(m * float64(time.Minute))
		}
		sess, err := d.focus.OpenFor(ctx, args[0], length)
		if err != nil {
			return err
		}
		defer sess.Close()

		lesson, err := d.lessons.Lesson(ctx, sess.LessonID())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Focus: %s\n", lesson.Title)
		if err := sess.Start(); err != nil {
			return err
		}

		for {
			select {
			case <-ctx.Done():
				_ = sess.Abort()
				fmt.Fprintln(w, "\nSession abandoned. No XP this time.")
				return nil
			case snap, ok := <-sess.Updates():
				if !ok {
					return nil
				}
				fmt.Fprintf(w, "\r%02d:%02d remaining ", snap.RemainingSeconds/60, snap.RemainingSeconds%60)
				if snap.Outcome != nil {
					return reportOutcome(cmd, snap.Outcome)
				}
			}
		}
	},
}

func reportOutcome(cmd *cobra.Command, out *focus.Outcome) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "\n\nLevel complete!")
	fmt.Fprintf(w, "+%d XP\n", out.XP)
	if out.User != nil {
		fmt.Fprintf(w, "Total %d XP, %d day streak\n", out.User.XP, out.User.Streak)
	}
	return out.Err
}

func init() {
	focusCmd.Flags().Float64("minutes", 0, "Override the session length (fractions allowed, e.g. 0.1)")
}
