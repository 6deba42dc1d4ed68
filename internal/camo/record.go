package camo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"path/filepath"
	"strings"
)

const (
	nameLengthSize = 2
	nameCRCSize    = 4
)

// ErrNameTooLong is returned when a file name does not fit the uint16 length field.
var ErrNameTooLong = errors.New("file name too long")

// writeRecordHeader writes the fields that precede the file content in a record.
func writeRecordHeader(w io.Writer, name string) error {
	raw := []byte(name)
	if len(raw) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(raw))
	}

	header := make([]byte, 0, nameLengthSize+len(raw)+nameCRCSize)
	header = binary.LittleEndian.AppendUint16(header, uint16(len(raw))) //nolint:gosec // bounded above
	header = append(header, raw...)
	header = binary.LittleEndian.AppendUint32(header, crc32.ChecksumIEEE(raw))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing record header: %w", err)
	}

	return nil
}

// readRecordHeader reads the name fields of a record and checks the name CRC.
// On success r is positioned at the first content byte.
func readRecordHeader(r io.Reader) (string, error) {
	var size [nameLengthSize]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return "", truncated("name length", err)
	}

	raw := make([]byte, binary.LittleEndian.Uint16(size[:]))
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", truncated("name", err)
	}

	var stored [nameCRCSize]byte
	if _, err := io.ReadFull(r, stored[:]); err != nil {
		return "", truncated("name CRC", err)
	}

	if binary.LittleEndian.Uint32(stored[:]) != crc32.ChecksumIEEE(raw) {
		return "", ErrFilenameCRCMismatch
	}

	name := string(raw)
	if !safeName(name) {
		return "", fmt.Errorf("%w: unsafe file name %q", ErrWrongPasswordOrCorrupted, name)
	}

	return name, nil
}

// safeName reports whether name can be used as a file in the output directory.
func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func truncated(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: record ends inside %s", ErrWrongPasswordOrCorrupted, field)
	}

	return fmt.Errorf("reading %s: %w", field, err)
}
