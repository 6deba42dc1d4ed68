package autoimage_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocamo/internal/autoimage"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    autoimage.Request
		wantErr bool
	}{
		{value: "cats,funny,640x480", want: autoimage.Request{Tags: []string{"cats", "funny"}, Width: 640, Height: 480}},
		{value: "800x600", want: autoimage.Request{Width: 800, Height: 600}},
		{value: "dogs,4000x1", want: autoimage.Request{Tags: []string{"dogs"}, Width: 4000, Height: 1}},
		{value: "", wantErr: true},
		{value: "cats", wantErr: true},
		{value: "cats,640", wantErr: true},
		{value: "cats,0x480", wantErr: true},
		{value: "cats,640x4001", wantErr: true},
		{value: "cats,axb", wantErr: true},
		{value: "cats,640x480x2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			got, err := autoimage.Parse(tt.value)
			if tt.wantErr {
				require.ErrorIs(t, err, autoimage.ErrInvalidRequest)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestPath(t *testing.T) {
	t.Parallel()

	req := autoimage.Request{Tags: []string{"cats", "funny"}, Width: 640, Height: 480}
	assert.Equal(t, "/640/480/cats,funny/all", req.Path())
}

func TestFetch(t *testing.T) {
	t.Parallel()

	body := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

	paths := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.Write(body) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	fsys := afero.NewMemMapFs()
	fetcher := &autoimage.Fetcher{Client: server.Client(), BaseURL: server.URL}

	size, err := fetcher.Fetch(t.Context(), fsys, autoimage.Request{Tags: []string{"cats"}, Width: 10, Height: 20}, "autoimage.jpg")
	require.NoError(t, err)

	assert.Equal(t, "/10/20/cats/all", <-paths)
	assert.Equal(t, int64(len(body)), size)

	got, err := afero.ReadFile(fsys, "autoimage.jpg")
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestFetchStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	fsys := afero.NewMemMapFs()
	fetcher := &autoimage.Fetcher{Client: server.Client(), BaseURL: server.URL}

	_, err := fetcher.Fetch(t.Context(), fsys, autoimage.Request{Width: 10, Height: 10}, "autoimage.jpg")
	require.ErrorContains(t, err, "unexpected status")

	exists, err := afero.Exists(fsys, "autoimage.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}
