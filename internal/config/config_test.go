package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocamo/internal/camo"
	"github.com/idelchi/gocamo/internal/config"
)

func hide() config.Config {
	return config.Config{
		Action:   config.ActionHide,
		Password: "pw1",
		File:     "secret.txt",
		Image:    "cover.jpg",
	}
}

func show() config.Config {
	return config.Config{
		Action:   config.ActionShow,
		Password: "pw1",
		Files:    []string{"cover.enc.jpg"},
		Parallel: 1,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*config.Config)
		base    func() config.Config
		wantErr string
	}{
		{name: "hide ok", base: hide},
		{name: "show ok", base: show},
		{
			name:   "hide with autoimage",
			base:   hide,
			modify: func(c *config.Config) { c.Image = ""; c.AutoImage = "cats,640x480" },
		},
		{
			name:    "image and autoimage",
			base:    hide,
			modify:  func(c *config.Config) { c.AutoImage = "cats,640x480" },
			wantErr: "--image is mutually exclusive with AutoImage",
		},
		{
			name:    "password and paranoia",
			base:    hide,
			modify:  func(c *config.Config) { c.Paranoia = true },
			wantErr: "--password is mutually exclusive with Paranoia",
		},
		{
			name:    "hide without file",
			base:    hide,
			modify:  func(c *config.Config) { c.File = "" },
			wantErr: "no file specified",
		},
		{
			name:    "hide without image",
			base:    hide,
			modify:  func(c *config.Config) { c.Image = "" },
			wantErr: "no image specified",
		},
		{
			name:    "show without files",
			base:    show,
			modify:  func(c *config.Config) { c.Files = nil },
			wantErr: "no source image specified",
		},
		{
			name:    "show paranoia without hat",
			base:    show,
			modify:  func(c *config.Config) { c.Password = ""; c.Paranoia = true },
			wantErr: "--paranoia requires --hat",
		},
		{
			name:   "custom marker",
			base:   show,
			modify: func(c *config.Config) { c.Marker = "cafe" },
		},
		{
			name:    "short marker",
			base:    show,
			modify:  func(c *config.Config) { c.Marker = "ca" },
			wantErr: "--marker should be hex encoded",
		},
		{
			name:    "non hex marker",
			base:    show,
			modify:  func(c *config.Config) { c.Marker = "zzzz" },
			wantErr: "--marker should be hex encoded",
		},
		{
			name:    "bad log level",
			base:    show,
			modify:  func(c *config.Config) { c.Log.Level = "loud" },
			wantErr: "--log-level must be one of [debug info warn error]",
		},
		{
			name:    "zero parallel",
			base:    show,
			modify:  func(c *config.Config) { c.Parallel = 0 },
			wantErr: "--parallel must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.base()
			if tt.modify != nil {
				tt.modify(&cfg)
			}

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMode(t *testing.T) {
	t.Parallel()

	cfg := hide()
	assert.Equal(t, camo.ModePassphrase, cfg.Mode())

	cfg.Paranoia = true
	assert.Equal(t, camo.ModeParanoia, cfg.Mode())
}
