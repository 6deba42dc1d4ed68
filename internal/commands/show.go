package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gocamo/internal/config"
	"github.com/idelchi/gocamo/internal/logic"
)

// NewShowCommand creates a new cobra command for the show subcommand.
func NewShowCommand(parallel int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [flags] images...",
		Short: "Recover the files hidden in JPEG images",
		Example: `  gocamo show -p pw1 cover.jpg.enc.jpg
  gocamo show --paranoia --hat cover.jpg.enc.key -o out cover.jpg.enc.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, config.ActionShow, args, func(cfg *config.Config, env logic.Env) error {
				return logic.RunShow(cmd.Context(), cfg, env)
			})
		},
	}

	cmd.Flags().StringP("output", "o", ".", "Directory for the recovered files")
	cmd.Flags().String("hat", "", "Hat file with the key and IV, required in paranoia mode")
	cmd.Flags().IntP("parallel", "j", parallel, "Number of images processed at once, defaults to number of CPUs")

	return cmd
}
