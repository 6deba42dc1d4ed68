// Package commands provides the command-line interface for the gocamo tool.
//
// It implements commands for:
//   - hiding a file inside a JPEG image
//   - showing the files hidden in images
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
