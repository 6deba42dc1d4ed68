package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gocamo/internal/autoimage"
	"github.com/idelchi/gocamo/internal/config"
	"github.com/idelchi/gocamo/internal/logging"
	"github.com/idelchi/gocamo/internal/logic"
	"github.com/idelchi/gocamo/internal/terminal"
)

const envPrefix = "GOCAMO"

// load merges flags and GOCAMO_* environment variables into a validated Config.
func load(cmd *cobra.Command, action config.Action, args []string) (*config.Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	if err := v.BindEnv("log-level", envPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Action = action
	cfg.Files = args

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// run loads the configuration, sets up logging and hands over to fn.
func run(cmd *cobra.Command, action config.Action, args []string, fn func(*config.Config, logic.Env) error) error {
	cfg, err := load(cmd, action, args)
	if err != nil {
		return err
	}

	logger, closer := logging.New(cmd.ErrOrStderr(), logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	defer closer.Close()

	logger.Debug("configuration loaded", "action", cfg.Action, "mode", cfg.Mode(), "files", len(cfg.Files))

	env := logic.Env{
		Fs:       afero.NewOsFs(),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Logger:   logger,
		Prompter: terminal.New(cmd.ErrOrStderr()),
		Fetcher:  &autoimage.Fetcher{Logger: logger},
	}

	return fn(cfg, env)
}
