package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/ogcards"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar <input> <output.jpg>",
	Short: "Convert an image into a card avatar",
	Long:  "Crop an image to a centered square, scale it down and save it as JPEG for social_card_avatar_image.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ogcards.WriteAvatar(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
		return nil
	},
}
