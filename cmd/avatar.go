package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/avatar"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar [description]",
	Short: "Show your avatar, or generate a new one from a description",
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
		w := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(w, avatar.Describe(u.Avatar))
			return nil
		}

		look, err := d.avatars.Generate(ctx, strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, "avatar generation failed, using a fallback look:", err)
		}
		u, err = d.profiles.UpdateAvatar(ctx, avatar.Merge(u.Avatar, look))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, avatar.Describe(u.Avatar))
		return nil
	},
}
