package camo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Section describes where a hidden section sits inside an artifact.
type Section struct {
	// Found reports whether the signature was matched.
	Found bool
	// Offset is the position right after the compression indicator, where the ciphertext starts.
	Offset int64
	// Length is the total number of bytes in the artifact.
	Length int64
	// Flag is the compression indicator, valid only when HasFlag is set.
	Flag byte
	// HasFlag is false when the signature is the last thing in the artifact.
	HasFlag bool
}

// Compressed reports whether the indicator marks the record as compressed.
// It returns ErrCorruptHeader for a missing or unknown indicator.
func (s Section) Compressed() (bool, error) {
	if !s.HasFlag {
		return false, fmt.Errorf("%w: missing after signature", ErrCorruptHeader)
	}

	switch s.Flag {
	case flagPlain:
		return false, nil
	case flagCompressed:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrCorruptHeader, s.Flag)
	}
}

// CipherLength is the size of the encrypted section.
func (s Section) CipherLength() int64 {
	return s.Length - s.Offset
}

const (
	flagPlain      byte = 0
	flagCompressed byte = 1
)

// matcher is a streaming failure-function automaton over a fixed pattern.
type matcher struct {
	pattern []byte
	failure []int
	state   int
}

func newMatcher(pattern []byte) *matcher {
	failure := make([]int, len(pattern))

	for i, k := 1, 0; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = failure[k-1]
		}

		if pattern[i] == pattern[k] {
			k++
		}

		failure[i] = k
	}

	return &matcher{pattern: pattern, failure: failure}
}

// feed advances the automaton by one byte and reports a complete match.
func (m *matcher) feed(b byte) bool {
	for m.state > 0 && b != m.pattern[m.state] {
		m.state = m.failure[m.state-1]
	}

	if b == m.pattern[m.state] {
		m.state++
	}

	if m.state == len(m.pattern) {
		m.state = m.failure[m.state-1]

		return true
	}

	return false
}

// Scan reads r to the end and locates the first occurrence of sig.
// The byte following the match is captured as the compression indicator.
func Scan(r io.Reader, sig Signature) (Section, error) {
	var section Section

	if len(sig) == 0 {
		return section, fmt.Errorf("%w: empty signature", ErrInvalidMarker)
	}

	m := newMatcher(sig)
	br := bufio.NewReaderSize(r, defaultBufferSize)

	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return section, nil
		}

		if err != nil {
			return section, ioError("scanning artifact", err)
		}

		section.Length++

		if !m.feed(b) {
			continue
		}

		section.Found = true
		section.Offset = section.Length

		break
	}

	flag, err := br.ReadByte()

	switch {
	case errors.Is(err, io.EOF):
		return section, nil
	case err != nil:
		return section, ioError("scanning artifact", err)
	}

	section.Flag = flag
	section.HasFlag = true
	section.Offset++
	section.Length++

	rest, err := io.Copy(io.Discard, br)
	if err != nil {
		return section, ioError("scanning artifact", err)
	}

	section.Length += rest

	return section, nil
}
