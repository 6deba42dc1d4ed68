// Package logic runs the hide and show commands on top of the camo codec.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/idelchi/gocamo/internal/autoimage"
	"github.com/idelchi/gocamo/internal/camo"
	"github.com/idelchi/gocamo/internal/config"
)

// ErrNoPassword is returned when passphrase mode has no password and no way to prompt for one.
var ErrNoPassword = errors.New("no password specified, use --password or --paranoia")

// Prompter reads a passphrase interactively.
type Prompter interface {
	Passphrase(prompt string) (string, error)
	PassphraseWithConfirm(prompt, confirmPrompt string) (string, error)
}

// Env carries the side effects available to a run.
type Env struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Prompter is asked for the password when none is configured. Nil disables prompting.
	Prompter Prompter
	// Fetcher downloads the cover for --autoimage.
	Fetcher *autoimage.Fetcher
}

func (e *Env) setDefaults() {
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}

	if e.Stdout == nil {
		e.Stdout = io.Discard
	}

	if e.Stderr == nil {
		e.Stderr = io.Discard
	}
}

// RunHide hides cfg.File in the configured cover image.
func RunHide(ctx context.Context, cfg *config.Config, env Env) error {
	start := time.Now()
	env.setDefaults()

	cover, coverSize, err := resolveCover(ctx, cfg, env)
	if err != nil {
		return err
	}

	password, err := passphrase(cfg, env, true)
	if err != nil {
		return err
	}

	result, err := camo.Pack(ctx, camo.PackOptions{
		Fs:         env.Fs,
		Logger:     env.Logger,
		SourceFile: cfg.File,
		CoverImage: cover,
		CoverSize:  coverSize,
		Output:     cfg.Output,
		HatFile:    cfg.Hat,
		Compress:   !cfg.NoComp,
		Mode:       cfg.Mode(),
		Passphrase: password,
		Marker:     cfg.Marker,
	})

	if err != nil {
		if cfg.Stats {
			printStats(env.Stderr, 0, 1, 0, time.Since(start))
		}

		return fmt.Errorf("hiding %q in %q: %w", cfg.File, cover, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(env.Stdout, result.Message)
	}

	if cfg.Stats {
		printStats(env.Stderr, 1, 0, result.Size, time.Since(start))
	}

	return nil
}

// RunShow recovers the files hidden in every artifact of cfg.Files.
func RunShow(ctx context.Context, cfg *config.Config, env Env) error {
	start := time.Now()
	env.setDefaults()

	password, err := passphrase(cfg, env, false)
	if err != nil {
		return err
	}

	proc := camo.NewProcessor(camo.UnpackOptions{
		Fs:         env.Fs,
		Logger:     env.Logger,
		OutputDir:  cfg.Output,
		Mode:       cfg.Mode(),
		Passphrase: password,
		HatFile:    cfg.Hat,
		Marker:     cfg.Marker,
	}, cfg.Parallel, cfg.Quiet, env.Stdout, env.Stderr)

	processed, errored, totalSize, err := proc.ProcessArtifacts(ctx, cfg.Files)

	if cfg.Stats {
		printStats(env.Stderr, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running show: %w", err)
	}

	return nil
}

// resolveCover returns the cover image path, downloading it first for --autoimage.
// A zero size lets the codec stat the file itself.
func resolveCover(ctx context.Context, cfg *config.Config, env Env) (string, int64, error) {
	if cfg.AutoImage == "" {
		return cfg.Image, 0, nil
	}

	req, err := autoimage.Parse(cfg.AutoImage)
	if err != nil {
		return "", 0, err
	}

	fetcher := env.Fetcher
	if fetcher == nil {
		fetcher = &autoimage.Fetcher{}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if !cfg.Quiet {
		fmt.Fprintln(env.Stdout, "Autoimage download started")
	}

	size, err := fetcher.Fetch(ctx, env.Fs, req, autoimage.FileName)
	if err != nil {
		return "", 0, err
	}

	if !cfg.Quiet {
		fmt.Fprintf(env.Stdout, "Autoimage downloaded (%d bytes)\n", size)
	}

	return autoimage.FileName, size, nil
}

// passphrase returns the configured password, prompting for it if needed.
func passphrase(cfg *config.Config, env Env, confirm bool) (string, error) {
	if cfg.Mode() == camo.ModeParanoia || cfg.Password != "" {
		return cfg.Password, nil
	}

	if env.Prompter == nil {
		return "", ErrNoPassword
	}

	if confirm {
		return env.Prompter.PassphraseWithConfirm("Password: ", "Confirm password: ")
	}

	return env.Prompter.Passphrase("Password: ")
}

func printStats(w io.Writer, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
