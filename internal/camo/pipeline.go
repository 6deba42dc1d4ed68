package camo

import (
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// pipeline runs stream stages concurrently, each connected to the next by an io.Pipe.
// The first stage error wins and cancels every other stage.
type pipeline struct {
	parent context.Context
	ctx    context.Context
	group  *errgroup.Group

	mu    sync.Mutex
	pipes []*io.PipeReader
	err   error
}

func newPipeline(parent context.Context) *pipeline {
	group, ctx := errgroup.WithContext(parent)

	p := &pipeline{parent: parent, ctx: ctx, group: group}

	// A reader closed on its own side reports io.ErrClosedPipe, so the
	// cancellation cause is recorded before any pipe is closed.
	go func() {
		<-ctx.Done()

		if p.parent.Err() != nil {
			p.fail(context.Cause(p.parent))
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		for _, pr := range p.pipes {
			pr.CloseWithError(context.Cause(ctx))
		}
	}()

	return p
}

// fail records err if it is the first one.
func (p *pipeline) fail(err error) {
	if err == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err == nil {
		p.err = err
	}
}

func (p *pipeline) pipe() (*io.PipeReader, *io.PipeWriter) {
	pr, pw := io.Pipe()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx.Err() != nil {
		pr.CloseWithError(context.Cause(p.ctx))
	}

	p.pipes = append(p.pipes, pr)

	return pr, pw
}

// source starts a producing stage and returns the reader of its output.
func (p *pipeline) source(produce func(w io.Writer) error) io.Reader {
	pr, pw := p.pipe()

	p.group.Go(func() error {
		err := produce(pw)
		p.fail(err)
		pw.CloseWithError(err)

		return err
	})

	return pr
}

// through starts a stage that transforms r and returns the reader of its output.
func (p *pipeline) through(r io.Reader, transform func(r io.Reader, w io.Writer) error) io.Reader {
	pr, pw := p.pipe()

	p.group.Go(func() error {
		err := transform(r, pw)
		p.fail(err)
		pw.CloseWithError(err)
		closeUpstream(r, err)

		return err
	})

	return pr
}

// sink starts the final stage consuming r.
func (p *pipeline) sink(r io.Reader, consume func(r io.Reader) error) {
	p.group.Go(func() error {
		err := consume(r)
		p.fail(err)
		closeUpstream(r, err)

		return err
	})
}

// wait blocks until every stage returned and reports the first failure.
func (p *pipeline) wait() error {
	groupErr := p.group.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	return groupErr
}

// closeUpstream unblocks a producer whose consumer stopped reading.
func closeUpstream(r io.Reader, err error) {
	if pr, ok := r.(*io.PipeReader); ok {
		pr.CloseWithError(err)
	}
}

// contextReader stops reading once ctx is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, context.Cause(c.ctx)
	}

	return c.r.Read(p)
}
