package terminal_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocamo/internal/terminal"
)

// scripted returns a reader that yields the given entries in order.
func scripted(entries ...string) func() ([]byte, error) {
	return func() ([]byte, error) {
		if len(entries) == 0 {
			return nil, errors.New("no more input")
		}

		next := entries[0]
		entries = entries[1:]

		return []byte(next), nil
	}
}

func TestPassphrase(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	p := &terminal.Prompter{Out: &out, ReadPassword: scripted("pw1")}

	got, err := p.Passphrase("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "pw1", got)
	assert.Equal(t, "Password: \n", out.String())
}

func TestPassphraseWithConfirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		want    string
		wantErr error
	}{
		{name: "match", entries: []string{"pw1", "pw1"}, want: "pw1"},
		{name: "mismatch", entries: []string{"pw1", "pw2"}, wantErr: terminal.ErrMismatch},
		{name: "confirm unreadable", entries: []string{"pw1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			p := &terminal.Prompter{Out: &out, ReadPassword: scripted(tt.entries...)}

			got, err := p.PassphraseWithConfirm("Password: ", "Confirm: ")

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.want == "":
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				assert.Equal(t, "Password: \nConfirm: \n", out.String())
			}
		})
	}
}
