package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gocamo/internal/autoimage"
	"github.com/idelchi/gocamo/internal/config"
	"github.com/idelchi/gocamo/internal/logic"
)

// NewHideCommand creates a new cobra command for the hide subcommand.
func NewHideCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hide [flags]",
		Short: "Hide a file inside a JPEG image",
		Example: `  gocamo hide -f secret.txt -i cover.jpg -p pw1
  gocamo hide -f secret.txt --autoimage cats,funny,640x480 --paranoia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, config.ActionHide, args, func(cfg *config.Config, env logic.Env) error {
				return logic.RunHide(cmd.Context(), cfg, env)
			})
		},
	}

	cmd.Flags().StringP("file", "f", "", "File to hide")
	cmd.Flags().StringP("image", "i", "", "Cover JPEG image")
	cmd.Flags().String("autoimage", "", "Download a cover image instead, as tag,tag,WIDTHxHEIGHT")
	cmd.Flags().Duration("timeout", autoimage.DefaultTimeout, "Timeout for the autoimage download")
	cmd.Flags().Bool("nocomp", false, "Do not compress the hidden file")
	cmd.Flags().StringP("output", "o", "", "Output image, defaults to <image>.enc.jpg")
	cmd.Flags().String("hat", "", "Where to write the hat file in paranoia mode, defaults to <image>.enc.key")

	return cmd
}
