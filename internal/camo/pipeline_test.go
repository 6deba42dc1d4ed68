package camo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineStreamsThroughStages(t *testing.T) {
	t.Parallel()

	p := newPipeline(t.Context())

	src := p.source(func(w io.Writer) error {
		_, err := io.Copy(w, strings.NewReader(strings.Repeat("abc", 100000)))

		return err
	})

	upper := p.through(src, func(r io.Reader, w io.Writer) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}

		_, err = w.Write(bytes.ToUpper(data))

		return err
	})

	var got bytes.Buffer

	p.sink(upper, func(r io.Reader) error {
		_, err := io.Copy(&got, r)

		return err
	})

	require.NoError(t, p.wait())
	assert.Equal(t, strings.Repeat("ABC", 100000), got.String())
}

func TestPipelineFirstErrorWins(t *testing.T) {
	t.Parallel()

	errSink := errors.New("sink failed")

	p := newPipeline(t.Context())

	// The producer never finishes on its own; it must be unblocked by the failing sink.
	src := p.source(func(w io.Writer) error {
		chunk := make([]byte, 1024)

		for {
			if _, err := w.Write(chunk); err != nil {
				return err
			}
		}
	})

	mid := p.through(src, func(r io.Reader, w io.Writer) error {
		_, err := io.Copy(w, r)

		return err
	})

	p.sink(mid, func(r io.Reader) error {
		if _, err := io.CopyN(io.Discard, r, 4096); err != nil {
			return err
		}

		return errSink
	})

	done := make(chan error, 1)
	go func() { done <- p.wait() }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, errSink)
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline did not stop after a stage failure")
	}
}

func TestPipelineParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())

	p := newPipeline(ctx)

	src := p.source(func(w io.Writer) error {
		for {
			if _, err := w.Write([]byte("x")); err != nil {
				return err
			}
		}
	})

	started := make(chan struct{})

	p.sink(src, func(r io.Reader) error {
		close(started)

		_, err := io.Copy(io.Discard, r)

		return err
	})

	<-started
	cancel()

	require.ErrorIs(t, p.wait(), context.Canceled)
}

func TestContextReader(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	r := contextReader{ctx: ctx, r: strings.NewReader("data")}

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cancel()

	_, err = r.Read(buf)
	require.ErrorIs(t, err, context.Canceled)
}
