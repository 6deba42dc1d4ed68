package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocamo/internal/commands"
	"github.com/idelchi/gocamo/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := commands.NewRootCommand("v0.0.0-test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())

	return out.String(), err
}

func workspace(t *testing.T) (string, string, string) {
	t.Helper()

	dir := t.TempDir()

	cover := filepath.Join(dir, "cover.jpg")
	img := append([]byte{0xFF, 0xD8}, bytes.Repeat([]byte{0x42}, 256)...)
	require.NoError(t, os.WriteFile(cover, append(img, 0xFF, 0xD9), 0o600))

	secret := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("hello"), 0o600))

	out := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(out, 0o750))

	return cover, secret, out
}

func TestHideShow(t *testing.T) {
	t.Parallel()

	cover, secret, out := workspace(t)

	output, err := execute(t, "hide", "-f", secret, "-i", cover, "-p", "pw1")
	require.NoError(t, err)
	assert.Contains(t, output, "successfully written")

	output, err = execute(t, "show", "-p", "pw1", "-o", out, cover+".enc.jpg")
	require.NoError(t, err)
	assert.Contains(t, output, "Processed")

	got, err := os.ReadFile(filepath.Join(out, "secret.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestParanoiaFlags(t *testing.T) {
	t.Parallel()

	cover, secret, out := workspace(t)

	_, err := execute(t, "hide", "-f", secret, "-i", cover, "--paranoia", "--nocomp", "--marker", "cafebabe")
	require.NoError(t, err)

	_, err = execute(t, "show", "--paranoia", "--hat", cover+".enc.key", "--marker", "cafebabe", "-o", out, cover+".enc.jpg")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(out, "secret.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestHideHatFlag(t *testing.T) {
	t.Parallel()

	cover, secret, out := workspace(t)
	hat := filepath.Join(filepath.Dir(cover), "custom.key")

	_, err := execute(t, "hide", "-f", secret, "-i", cover, "--paranoia", "--hat", hat)
	require.NoError(t, err)
	assert.NoFileExists(t, cover+".enc.key")
	assert.FileExists(t, hat)

	_, err = execute(t, "show", "--paranoia", "--hat", hat, "-o", out, cover+".enc.jpg")
	require.NoError(t, err)
}

//nolint:paralleltest // t.Setenv
func TestPasswordFromEnvironment(t *testing.T) {
	t.Setenv("GOCAMO_PASSWORD", "pw1")

	cover, secret, out := workspace(t)

	_, err := execute(t, "hide", "-f", secret, "-i", cover, "-q")
	require.NoError(t, err)

	_, err = execute(t, "show", "-o", out, "-p", "pw2", cover+".enc.jpg")
	require.Error(t, err)

	_, err = execute(t, "show", "-o", out, cover+".enc.jpg")
	require.NoError(t, err)
}

func TestInvalidFlags(t *testing.T) {
	t.Parallel()

	cover, secret, _ := workspace(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "password and paranoia", args: []string{"hide", "-f", secret, "-i", cover, "-p", "x", "--paranoia"}},
		{name: "image and autoimage", args: []string{"hide", "-f", secret, "-i", cover, "--autoimage", "640x480", "-p", "x"}},
		{name: "no image", args: []string{"hide", "-f", secret, "-p", "x"}},
		{name: "short marker", args: []string{"show", "-p", "x", "--marker", "ff", cover}},
		{name: "paranoia without hat", args: []string{"show", "--paranoia", cover}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}
