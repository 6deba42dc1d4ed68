package camo

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// outcome is what one unpack job reports to the printer.
type outcome struct {
	artifact string
	result   *UnpackResult
	err      error
}

// Processor reveals the files hidden in several artifacts concurrently.
type Processor struct {
	// base holds the options shared by every artifact
	base UnpackOptions

	// parallel bounds the number of concurrent unpacks
	parallel int

	// quiet suppresses per-artifact success lines
	quiet bool

	// stdout and stderr receive the printer output
	stdout io.Writer
	stderr io.Writer
}

// NewProcessor creates a Processor. Artifact is ignored in base.
func NewProcessor(base UnpackOptions, parallel int, quiet bool, stdout, stderr io.Writer) *Processor {
	return &Processor{
		base:     base,
		parallel: max(1, parallel),
		quiet:    quiet,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// ProcessArtifacts unpacks every artifact and prints one line per outcome.
// Returns the number of recovered files, the number of failures and the recovered size.
//
//nolint:nonamedreturns
func (p *Processor) ProcessArtifacts(ctx context.Context, artifacts []string) (processed, errored int, totalSize int64, err error) {
	results := make(chan outcome, len(artifacts))

	// A failing artifact does not cancel the others.
	group := errgroup.Group{}
	group.SetLimit(p.parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for o := range results {
			if o.err != nil {
				errored++

				fmt.Fprintf(p.stderr, "Error processing %q: %v\n%s\n", o.artifact, o.err, Describe(o.err))

				continue
			}

			processed++

			totalSize += o.result.Size

			if !p.quiet {
				fmt.Fprintf(p.stdout, "Processed %q -> %q\n", o.artifact, o.result.Output)
			}
		}
	}()

	for _, artifact := range artifacts {
		group.Go(func() error {
			opts := p.base
			opts.Artifact = artifact

			res, err := Unpack(ctx, opts)
			if err != nil {
				results <- outcome{artifact: artifact, err: err}

				return err
			}

			results <- outcome{artifact: artifact, result: res}

			return nil
		})
	}

	err = group.Wait()

	close(results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing artifacts: %w", err)
	}

	return processed, errored, totalSize, nil
}
