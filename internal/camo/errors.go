package camo

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when a source, cover, artifact or output cannot be read or written.
	ErrIO = errors.New("i/o failure")
	// ErrMarkerNotFound is returned when the artifact holds no hidden section for the marker.
	ErrMarkerNotFound = errors.New("no hidden section found")
	// ErrCorruptHeader is returned when the compression indicator is neither 0 nor 1.
	ErrCorruptHeader = errors.New("invalid compression indicator")
	// ErrParanoiaKeyFile is returned when the hat file is missing or cannot be parsed.
	ErrParanoiaKeyFile = errors.New("invalid hat file")
	// ErrWrongPasswordOrCorrupted is returned when the hidden section does not decode.
	ErrWrongPasswordOrCorrupted = errors.New("cannot decode hidden section")
	// ErrFilenameCRCMismatch is returned when the stored file name fails its CRC check.
	// It belongs to the ErrWrongPasswordOrCorrupted class.
	ErrFilenameCRCMismatch = fmt.Errorf("%w: file name CRC mismatch", ErrWrongPasswordOrCorrupted)
	// ErrInvalidMarker is returned for a marker override that is not hex or shorter than 2 bytes.
	ErrInvalidMarker = errors.New("invalid marker")
)

// Describe returns a user-facing explanation for err, listing the likely causes.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMarkerNotFound):
		return "No hidden section found in image. Possible causes:\n" +
			"  - nothing is hidden in this image\n" +
			"  - wrong --marker specified"
	case errors.Is(err, ErrCorruptHeader):
		return "Wrong compression indicator. Possible causes:\n" +
			"  - wrong --marker specified\n" +
			"  - corrupted file"
	case errors.Is(err, ErrFilenameCRCMismatch):
		return "File name CRC failed. Possible causes:\n" +
			"  - wrong password or hat file\n" +
			"  - corrupted file"
	case errors.Is(err, ErrWrongPasswordOrCorrupted):
		return "Cannot decode hidden section. Possible causes:\n" +
			"  - wrong password or hat file\n" +
			"  - corrupted file"
	case errors.Is(err, ErrParanoiaKeyFile):
		return "Cannot use the hat file. Verify its path and contents."
	default:
		return err.Error()
	}
}

// ioError classifies err as ErrIO. Cancellation is passed through unchanged.
func ioError(what string, err error) error {
	if cancelled(err) {
		return err
	}

	return fmt.Errorf("%w: %s: %w", ErrIO, what, err)
}

func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
