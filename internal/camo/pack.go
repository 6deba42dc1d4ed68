package camo

import (
	"bufio"
	"bytes"
	"context"
	"crypto/cipher"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/idelchi/gocamo/internal/fileutil"
)

// Pack hides opts.SourceFile inside opts.CoverImage and writes the artifact.
// Nothing is left at opts.Output if Pack fails.
//
//nolint:funlen,cyclop
func Pack(ctx context.Context, opts PackOptions) (result *PackResult, err error) {
	opts.setDefaults()

	sig, err := NewSignature(opts.Marker)
	if err != nil {
		return nil, err
	}

	keys, err := ObtainForPack(opts.Mode, opts.Passphrase)
	if err != nil {
		return nil, err
	}

	stream, err := keys.Stream()
	if err != nil {
		return nil, err
	}

	source, err := opts.Fs.Open(filepath.Clean(opts.SourceFile))
	if err != nil {
		return nil, ioError("opening source file", err)
	}
	defer source.Close()

	cover, err := opts.Fs.Open(filepath.Clean(opts.CoverImage))
	if err != nil {
		return nil, ioError("opening cover image", err)
	}
	defer cover.Close()

	if opts.CoverSize == 0 {
		info, err := cover.Stat()
		if err != nil {
			return nil, ioError("stat cover image", err)
		}

		opts.CoverSize = info.Size()
	}

	opts.Logger.Debug("packing",
		"source", opts.SourceFile,
		"cover", opts.CoverImage,
		"mode", opts.Mode,
		"compress", opts.Compress,
		"signature", sig.String(),
	)

	tc, err := fileutil.NewTempContext(opts.Fs, filepath.Dir(opts.Output))
	if err != nil {
		return nil, ioError("preparing artifact", err)
	}

	defer tc.CleanupOnError(&err)

	p := newPipeline(ctx)

	record := p.source(func(w io.Writer) error {
		return frame(w, filepath.Base(opts.SourceFile), contextReader{ctx: p.ctx, r: source})
	})

	if opts.Compress {
		record = p.through(record, compress)
	}

	p.sink(record, func(r io.Reader) error {
		return assemble(tc.TmpFile, contextReader{ctx: p.ctx, r: cover}, sig, opts.Compress, stream, r)
	})

	if err = p.wait(); err != nil {
		return nil, err
	}

	size, err := tc.Commit(opts.Output)
	if err != nil {
		return nil, ioError("finalizing artifact", err)
	}

	result = &PackResult{
		Output:    opts.Output,
		CoverSize: opts.CoverSize,
		Size:      size,
		Increase:  increase(opts.CoverSize, size),
	}

	if opts.Mode == ModeParanoia {
		result.Hat = keys.Hat()
		result.HatFile = opts.HatFile

		if err = WriteHat(opts.Fs, opts.HatFile, result.Hat); err != nil {
			opts.Fs.Remove(opts.Output) //nolint:errcheck,gosec // artifact is useless without its hat

			return nil, err
		}
	}

	result.Message = packMessage(result)

	opts.Logger.Debug("packed", "output", result.Output, "size", result.Size)

	return result, nil
}

// frame writes the plaintext record for a file named name with the content of r.
func frame(w io.Writer, name string, r io.Reader) error {
	if err := writeRecordHeader(w, name); err != nil {
		return err
	}

	if _, err := copyBuffered(w, r); err != nil {
		return ioError("reading source file", err)
	}

	return nil
}

// compress gzips r into w.
func compress(r io.Reader, w io.Writer) error {
	gz := gzip.NewWriter(w)

	if _, err := copyBuffered(gz, r); err != nil {
		return fmt.Errorf("compressing record: %w", err)
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("compressing record: %w", err)
	}

	return nil
}

// assemble writes the cover, the signature, the indicator and the encrypted record to out.
// A cover that already ends in EndOfImage is followed by the marker alone, so the
// first signature match always starts at the cover's own end-of-image bytes.
func assemble(out io.Writer, cover io.Reader, sig Signature, compressed bool, stream cipher.Stream, record io.Reader) error {
	bw := bufio.NewWriterSize(out, defaultBufferSize)
	tail := &tailWriter{w: bw}

	if _, err := copyBuffered(tail, cover); err != nil {
		return ioError("copying cover image", err)
	}

	header := []byte(sig)
	if tail.endsWith(EndOfImage) {
		header = sig.Marker()
	}

	flag := flagPlain
	if compressed {
		flag = flagCompressed
	}

	if _, err := bw.Write(append(append([]byte{}, header...), flag)); err != nil {
		return ioError("writing signature", err)
	}

	if _, err := copyBuffered(cipher.StreamWriter{S: stream, W: bw}, record); err != nil {
		return fmt.Errorf("encrypting record: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return ioError("writing artifact", err)
	}

	return nil
}

// tailWriter remembers the last bytes written through it.
type tailWriter struct {
	w    io.Writer
	tail []byte
}

func (t *tailWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)

	t.tail = append(t.tail, p[:n]...)
	if keep := len(EndOfImage); len(t.tail) > keep {
		t.tail = append(t.tail[:0], t.tail[len(t.tail)-keep:]...)
	}

	return n, err
}

func (t *tailWriter) endsWith(suffix []byte) bool {
	return bytes.HasSuffix(t.tail, suffix)
}

func increase(cover, size int64) float64 {
	if cover <= 0 {
		return 0
	}

	const percent = 100

	return float64(size-cover) / float64(cover) * percent
}

func packMessage(r *PackResult) string {
	msg := fmt.Sprintf("%s successfully written.\nImage size: %s, camo image size: %s -> %.2f%% increase",
		r.Output,
		humanize.IBytes(uint64(max(0, r.CoverSize))), //nolint:gosec // clamped
		humanize.IBytes(uint64(max(0, r.Size))),      //nolint:gosec // clamped
		r.Increase,
	)

	if r.HatFile != "" {
		msg += fmt.Sprintf("\nDon't forget your %s key file.", r.HatFile)
	}

	return msg
}
