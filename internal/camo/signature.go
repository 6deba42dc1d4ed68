package camo

import (
	"fmt"

	"github.com/idelchi/gogen/pkg/key"
)

// DefaultMarker is the hex marker written after the end-of-image marker when no override is given.
const DefaultMarker = "697061636f6d75"

// MinMarkerSize is the minimum number of decoded bytes of a marker override.
const MinMarkerSize = 2

// EndOfImage is the JPEG end-of-image marker that starts every signature.
//
//nolint:gochecknoglobals
var EndOfImage = []byte{0xFF, 0xD9}

// Signature is the byte sequence that precedes the compression indicator of a hidden section.
type Signature []byte

// NewSignature builds the signature for a hex marker. An empty marker selects DefaultMarker.
func NewSignature(marker string) (Signature, error) {
	if marker == "" {
		marker = DefaultMarker
	}

	decoded, err := key.FromHex(marker)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not hex: %w", ErrInvalidMarker, marker, err)
	}

	if len(decoded) < MinMarkerSize {
		return nil, fmt.Errorf("%w: %q decodes to %d byte(s), need at least %d",
			ErrInvalidMarker, marker, len(decoded), MinMarkerSize)
	}

	sig := make(Signature, 0, len(EndOfImage)+len(decoded))
	sig = append(sig, EndOfImage...)

	return append(sig, decoded...), nil
}

// String returns the signature as lower-case hex.
func (s Signature) String() string {
	return key.Key(s).AsHex()
}

// Marker returns the signature without its leading end-of-image bytes.
func (s Signature) Marker() []byte {
	return s[len(EndOfImage):]
}
