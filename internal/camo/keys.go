package camo

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" //nolint:gosec // EVP_BytesToKey compatibility
	"fmt"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/spf13/afero"
)

// Mode selects where the cipher key comes from.
type Mode byte

const (
	// ModePassphrase derives key and IV from a passphrase, without salt or random IV.
	ModePassphrase Mode = iota
	// ModeParanoia uses a random key and IV that are stored in a hat file.
	ModeParanoia
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePassphrase:
		return "passphrase"
	case ModeParanoia:
		return "paranoia"
	default:
		return fmt.Sprintf("mode(%d)", byte(m))
	}
}

const (
	// KeySize is the AES-256 key size.
	KeySize = 32
	// IVSize is the CTR initialization vector size.
	IVSize = aes.BlockSize
)

// KeyMaterial is the AES-256-CTR key and IV for one pack or unpack call.
type KeyMaterial struct {
	Mode Mode
	Key  []byte
	IV   []byte
}

// Stream returns a fresh CTR keystream positioned at the start of the hidden section.
func (k KeyMaterial) Stream() (cipher.Stream, error) {
	if len(k.Key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(k.Key))
	}

	if len(k.IV) != IVSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", IVSize, len(k.IV))
	}

	block, err := aes.NewCipher(k.Key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return cipher.NewCTR(block, k.IV), nil
}

// Hat returns the hex form of the key material, as stored in a hat file.
func (k KeyMaterial) Hat() *Hat {
	return &Hat{
		Key: key.Key(k.Key).AsHex(),
		IV:  key.Key(k.IV).AsHex(),
	}
}

// ObtainForPack produces the key material for hiding a file.
func ObtainForPack(mode Mode, passphrase string) (KeyMaterial, error) {
	switch mode {
	case ModePassphrase:
		return fromPassphrase(passphrase), nil
	case ModeParanoia:
		return generate(key.New)
	default:
		return KeyMaterial{}, fmt.Errorf("unknown mode %v", mode)
	}
}

// ObtainForUnpack produces the key material for revealing a file.
// In paranoia mode the key and IV are read from the hat file through fsys.
func ObtainForUnpack(fsys afero.Fs, mode Mode, passphrase, hatFile string) (KeyMaterial, error) {
	switch mode {
	case ModePassphrase:
		return fromPassphrase(passphrase), nil
	case ModeParanoia:
		hat, err := ReadHat(fsys, hatFile)
		if err != nil {
			return KeyMaterial{}, err
		}

		return hat.KeyMaterial()
	default:
		return KeyMaterial{}, fmt.Errorf("unknown mode %v", mode)
	}
}

// generate draws a random key and IV from newKey.
func generate(newKey func(length int) (key.Key, error)) (KeyMaterial, error) {
	k, err := newKey(KeySize)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("generating key: %w", err)
	}

	iv, err := newKey(IVSize)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("generating IV: %w", err)
	}

	return KeyMaterial{Mode: ModeParanoia, Key: k, IV: iv}, nil
}

// fromPassphrase derives key and IV like OpenSSL EVP_BytesToKey with MD5,
// no salt and a single round, which keeps artifacts readable by other tools
// using the legacy aes-256-ctr password interface.
func fromPassphrase(passphrase string) KeyMaterial {
	var (
		derived []byte
		prev    []byte
	)

	for len(derived) < KeySize+IVSize {
		h := md5.New() //nolint:gosec
		h.Write(prev)
		h.Write([]byte(passphrase))
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}

	return KeyMaterial{
		Mode: ModePassphrase,
		Key:  derived[:KeySize],
		IV:   derived[KeySize : KeySize+IVSize],
	}
}
