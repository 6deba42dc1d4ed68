package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
)

// NewRootCommand creates the root command with common configuration.
// Flags shared by hide and show are persistent.
func NewRootCommand(version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "gocamo [flags] command [flags]"
	root.Short = "Hide files inside JPEG images"
	root.Long = `Hide a file at the end of a JPEG image, encrypted with AES-256-CTR.
The image still opens in any viewer. Use 'show' with the same password
(or the hat file in paranoia mode) to get the file back.

Every flag can also be set from the environment, e.g. GOCAMO_PASSWORD.`

	// Flags and environment are bound per command in load, on a viper instance of its own.
	root.PersistentPreRunE = nil

	flags := root.PersistentFlags()

	flags.StringP("password", "p", "", "Password used to derive the encryption key, prompted for if missing")
	flags.Bool("paranoia", false, "Use a random key and IV stored in a hat file instead of a password")
	flags.String("marker", "", "Hex marker that tags the hidden section (at least 2 bytes)")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary when done")
	flags.String("log-level", "info", "Log level for diagnostics (debug, info, warn, error)")
	flags.String("log-file", "", "Also write diagnostics to this file, rotated by size")

	root.AddCommand(NewHideCommand(), NewShowCommand(runtime.NumCPU()))

	return root
}
