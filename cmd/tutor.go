package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor <question>",
	Short: "Ask Nova, the study tutor, a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		lesson, _ := cmd.Flags().GetString("lesson")
		if lesson == "" {
			if p, err := d.lessons.Progress(ctx); err == nil && p.Current != nil {
				lesson = p.Current.Title
			}
		}

		reply, err := d.tutor.Reply(ctx, nil, lesson, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, "tutor unavailable:", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	tutorCmd.Flags().String("lesson", "", "Lesson the question is about (default: your current level)")
}
