package camo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/gogen/pkg/validator"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
)

// Hat is the on-disk form of paranoia-mode key material.
type Hat struct {
	Key string `json:"key" validate:"required,len=64,hexadecimal"`
	IV  string `json:"iv"  validate:"required,len=32,hexadecimal"`
}

// Validate checks that key and IV are hex strings of the expected length.
func (h Hat) Validate() error {
	if errs := validator.NewValidator().Validate(h); len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrParanoiaKeyFile, errors.Join(errs...))
	}

	return nil
}

// KeyMaterial decodes the hat into paranoia-mode key material.
func (h Hat) KeyMaterial() (KeyMaterial, error) {
	if err := h.Validate(); err != nil {
		return KeyMaterial{}, err
	}

	k, err := key.FromHex(h.Key)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("%w: decoding key: %w", ErrParanoiaKeyFile, err)
	}

	iv, err := key.FromHex(h.IV)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("%w: decoding iv: %w", ErrParanoiaKeyFile, err)
	}

	return KeyMaterial{Mode: ModeParanoia, Key: k, IV: iv}, nil
}

// ReadHat loads and validates a hat file. Comments and trailing commas are tolerated.
func ReadHat(fsys afero.Fs, path string) (*Hat, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrParanoiaKeyFile, path, err)
	}

	var hat Hat
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &hat); err != nil {
		return nil, fmt.Errorf("%w: parsing %q: %w", ErrParanoiaKeyFile, path, err)
	}

	if err := hat.Validate(); err != nil {
		return nil, fmt.Errorf("checking %q: %w", path, err)
	}

	return &hat, nil
}

// WriteHat stores the hat as JSON at path.
func WriteHat(fsys afero.Fs, path string, hat *Hat) error {
	data, err := json.Marshal(hat)
	if err != nil {
		return fmt.Errorf("encoding hat: %w", err)
	}

	const ownerReadWrite = 0o600

	if err := afero.WriteFile(fsys, path, data, ownerReadWrite); err != nil {
		return ioError("writing hat file", err)
	}

	return nil
}
