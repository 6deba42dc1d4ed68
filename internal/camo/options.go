package camo

import (
	"io"
	"log/slog"

	"github.com/spf13/afero"
)

const (
	// ArtifactSuffix is appended to the cover image name to name the artifact.
	ArtifactSuffix = ".enc.jpg"
	// HatSuffix is appended to the cover image name to name the hat file.
	HatSuffix = ".enc.key"
)

// PackOptions configures a single Pack call.
type PackOptions struct {
	// Fs is the filesystem to work on. Defaults to the OS filesystem.
	Fs afero.Fs
	// Logger receives debug output. Defaults to a discarding logger.
	Logger *slog.Logger

	// SourceFile is the file to hide. Only its base name is stored.
	SourceFile string
	// CoverImage is the JPEG to hide the file in.
	CoverImage string
	// CoverSize is the size of CoverImage, used for reporting. Zero means stat the file.
	CoverSize int64
	// Output is the artifact path. Defaults to CoverImage + ArtifactSuffix.
	Output string
	// HatFile is where paranoia-mode key material is stored. Defaults to CoverImage + HatSuffix.
	HatFile string

	Compress   bool
	Mode       Mode
	Passphrase string
	// Marker is the hex marker override. Empty selects DefaultMarker.
	Marker string
}

func (o *PackOptions) setDefaults() {
	o.Fs, o.Logger = defaultEnv(o.Fs, o.Logger)

	if o.Output == "" {
		o.Output = o.CoverImage + ArtifactSuffix
	}

	if o.HatFile == "" {
		o.HatFile = o.CoverImage + HatSuffix
	}
}

// UnpackOptions configures a single Unpack call.
type UnpackOptions struct {
	// Fs is the filesystem to work on. Defaults to the OS filesystem.
	Fs afero.Fs
	// Logger receives debug output. Defaults to a discarding logger.
	Logger *slog.Logger

	// Artifact is the image holding the hidden section.
	Artifact string
	// OutputDir receives the recovered file. Defaults to the current directory.
	OutputDir string

	Mode       Mode
	Passphrase string
	// HatFile is required in paranoia mode.
	HatFile string
	// Marker is the hex marker override. Empty selects DefaultMarker.
	Marker string
}

func (o *UnpackOptions) setDefaults() {
	o.Fs, o.Logger = defaultEnv(o.Fs, o.Logger)

	if o.OutputDir == "" {
		o.OutputDir = "."
	}
}

func defaultEnv(fsys afero.Fs, logger *slog.Logger) (afero.Fs, *slog.Logger) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return fsys, logger
}
