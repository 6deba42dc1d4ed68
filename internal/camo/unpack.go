package camo

import (
	"bufio"
	"context"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/idelchi/gocamo/internal/fileutil"
)

// Unpack recovers the hidden file from opts.Artifact into opts.OutputDir.
// Nothing is left in opts.OutputDir if Unpack fails.
//
//nolint:funlen
func Unpack(ctx context.Context, opts UnpackOptions) (result *UnpackResult, err error) {
	opts.setDefaults()

	sig, err := NewSignature(opts.Marker)
	if err != nil {
		return nil, err
	}

	artifact, err := opts.Fs.Open(filepath.Clean(opts.Artifact))
	if err != nil {
		return nil, ioError("opening artifact", err)
	}
	defer artifact.Close()

	section, err := Scan(contextReader{ctx: ctx, r: artifact}, sig)
	if err != nil {
		return nil, err
	}

	if !section.Found {
		return nil, fmt.Errorf("%w: signature %s in %q", ErrMarkerNotFound, sig, opts.Artifact)
	}

	compressed, err := section.Compressed()
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("hidden section found",
		"artifact", opts.Artifact,
		"offset", section.Offset,
		"length", section.CipherLength(),
		"compressed", compressed,
	)

	keys, err := ObtainForUnpack(opts.Fs, opts.Mode, opts.Passphrase, opts.HatFile)
	if err != nil {
		return nil, err
	}

	stream, err := keys.Stream()
	if err != nil {
		return nil, err
	}

	tc, err := fileutil.NewTempContext(opts.Fs, opts.OutputDir)
	if err != nil {
		return nil, ioError("preparing output", err)
	}

	defer tc.CleanupOnError(&err)

	p := newPipeline(ctx)

	ciphertext := p.source(func(w io.Writer) error {
		hidden := io.NewSectionReader(artifact, section.Offset, section.CipherLength())

		if _, err := copyBuffered(w, contextReader{ctx: p.ctx, r: hidden}); err != nil {
			return ioError("reading hidden section", err)
		}

		return nil
	})

	record := p.through(ciphertext, func(r io.Reader, w io.Writer) error {
		return decrypt(stream, r, w)
	})

	if compressed {
		record = p.through(record, decompress)
	}

	var (
		name    string
		written int64
	)

	p.sink(record, func(r io.Reader) error {
		var err error

		name, written, err = extract(r, tc.TmpFile)

		return err
	})

	if err = p.wait(); err != nil {
		return nil, err
	}

	output := filepath.Join(opts.OutputDir, name)

	if _, err = tc.Commit(output); err != nil {
		return nil, ioError("finalizing recovered file", err)
	}

	opts.Logger.Debug("unpacked", "artifact", opts.Artifact, "file", name, "size", written)

	return &UnpackResult{
		Artifact:   opts.Artifact,
		FileName:   name,
		Output:     output,
		Size:       written,
		Compressed: compressed,
		Message:    fmt.Sprintf("Extracted hidden file '%s'.", name),
	}, nil
}

// decrypt applies the CTR keystream to r and writes the result to w.
func decrypt(stream cipher.Stream, r io.Reader, w io.Writer) error {
	if _, err := copyBuffered(w, cipher.StreamReader{S: stream, R: r}); err != nil {
		return fmt.Errorf("decrypting hidden section: %w", err)
	}

	return nil
}

// decompress gunzips r into w. Any decoding failure is reported as ErrWrongPasswordOrCorrupted,
// since output of a wrong key cannot be told apart from damaged data.
func decompress(r io.Reader, w io.Writer) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		if cancelled(err) {
			return err
		}

		return fmt.Errorf("%w: decompressing: %w", ErrWrongPasswordOrCorrupted, err)
	}
	defer gz.Close()

	if _, err := copyBuffered(w, decodeReader{r: gz}); err != nil {
		return err
	}

	return nil
}

// decodeReader classifies read failures of a decoder as ErrWrongPasswordOrCorrupted.
type decodeReader struct {
	r io.Reader
}

func (d decodeReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && !cancelled(err) {
		return n, fmt.Errorf("%w: decompressing: %w", ErrWrongPasswordOrCorrupted, err)
	}

	return n, err
}

// extract parses the record from r and streams its content to out.
func extract(r io.Reader, out io.Writer) (string, int64, error) {
	br := bufio.NewReaderSize(r, defaultBufferSize)

	name, err := readRecordHeader(br)
	if err != nil {
		return "", 0, err
	}

	written, err := copyBuffered(out, br)
	if err != nil {
		return "", written, ioError("writing recovered file", err)
	}

	return name, written, nil
}
