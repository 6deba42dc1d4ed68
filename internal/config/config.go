// Package config holds the runtime configuration of gocamo and its validation.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/gocamo/internal/camo"
)

// Action is the operation requested on the command line.
type Action string

const (
	// ActionHide packs a file into a cover image.
	ActionHide Action = "hide"
	// ActionShow recovers hidden files from artifacts.
	ActionShow Action = "show"
)

// Config holds the application's configuration parameters.
type Config struct {
	// Action is set by the subcommand
	Action Action `validate:"oneof=hide show"`

	// Password is the passphrase for passphrase mode
	Password string `mapstructure:"password" validate:"exclusive=Paranoia" label:"--password"`

	// Paranoia selects random key material stored in a hat file
	Paranoia bool `mapstructure:"paranoia"`

	// Hat is the hat file path in paranoia mode, written by hide and required by show
	Hat string `mapstructure:"hat" label:"--hat"`

	// Marker overrides the hex marker that tags the hidden section
	Marker string `mapstructure:"marker" validate:"omitempty,marker" label:"--marker"`

	// File is the file to hide
	File string `mapstructure:"file" label:"--file"`

	// Image is the local cover image
	Image string `mapstructure:"image" validate:"exclusive=AutoImage" label:"--image"`

	// AutoImage fetches a cover image, as "tag,tag,WIDTHxHEIGHT"
	AutoImage string `mapstructure:"autoimage" label:"--autoimage"`

	// Timeout bounds the cover image download
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`

	// NoComp disables compression of the hidden file
	NoComp bool `mapstructure:"nocomp"`

	// Output is the artifact path for hide, or the output directory for show
	Output string `mapstructure:"output"`

	// Parallel bounds the number of artifacts processed at once by show
	Parallel int `mapstructure:"parallel"`

	// Quiet suppresses non-error output
	Quiet bool `mapstructure:"quiet"`

	// Stats prints a summary when done
	Stats bool `mapstructure:"stats"`

	// Log configures diagnostics output
	Log Log `mapstructure:",squash"`

	// Files are the artifacts given to show
	Files []string
}

// Log configures the diagnostic logger.
type Log struct {
	Level string `mapstructure:"log-level" validate:"omitempty,oneof=debug info warn error" label:"--log-level"`
	File  string `mapstructure:"log-file"  label:"--log-file"`
}

// Mode returns the key material mode selected by the configuration.
func (c *Config) Mode() camo.Mode {
	if c.Paranoia {
		return camo.ModeParanoia
	}

	return camo.ModePassphrase
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks the struct tags and the rules that depend on the action.
func (c *Config) Validate() error {
	validate := validator.NewValidator()

	if err := register(validate); err != nil {
		return err
	}

	if errs := validate.Validate(c); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	var errs []error

	switch c.Action {
	case ActionHide:
		if c.File == "" {
			errs = append(errs, errors.New("no file specified"))
		}

		if c.Image == "" && c.AutoImage == "" {
			errs = append(errs, errors.New("no image specified, use --image or --autoimage"))
		}
	case ActionShow:
		if len(c.Files) == 0 {
			errs = append(errs, errors.New("no source image specified"))
		}

		if c.Parallel < 1 {
			errs = append(errs, fmt.Errorf("--parallel must be at least 1, got %d", c.Parallel))
		}

		if c.Paranoia && c.Hat == "" {
			errs = append(errs, errors.New("no hat file specified, --paranoia requires --hat"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}
