package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/study"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List your lessons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		w := cmd.OutOrStdout()
		if err := printLessons(ctx, w, d); err != nil {
			return err
		}
		p, err := d.lessons.Progress(ctx)
		if err != nil {
			return err
		}
		if p.Total > 0 {
			fmt.Fprintf(w, "\n%d of %d done (%.0f%%)\n", p.Done, p.Total, p.Percent()*100)
		}
		return nil
	},
}

var lessonsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the stored lesson collection is consistent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		ls, err := d.lessons.ListLessons(cmd.Context())
		if err != nil {
			return err
		}
		if err := study.CheckCollection(ls); err != nil {
			return fmt.Errorf("lesson collection is inconsistent: %w", err)
		}
		p := lessons.ProgressOf(ls)
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d lessons, %d done\n", p.Total, p.Done)
		return nil
	},
}

func init() {
	lessonsCmd.AddCommand(lessonsCheckCmd)
}
