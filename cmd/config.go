package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/chromasweep/game"
)

const (
	envConfig   = "CHROMASWEEP_CONFIG"
	envSeed     = "CHROMASWEEP_SEED"
	envLogLevel = "CHROMASWEEP_LOG_LEVEL"
)

var log = game.Log

type paletteValue game.Palette

func newPaletteValue(val game.Palette, p *game.Palette) *paletteValue {
	*p = val
	return (*paletteValue)(p)
}

func (paletteVal *paletteValue) String() string {
	return game.Palette(*paletteVal).String()
}

func (paletteVal *paletteValue) Set(value string) error {
	palette, err := game.ParsePalette(value)
	if err != nil {
		return err
	}
	*paletteVal = paletteValue(palette)
	return nil
}

func (paletteVal *paletteValue) Type() string {
	return "game.Palette"
}

// loadEnv reads a .env file from the working directory, if there is one
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to load .env: %w", err)
	}
	return nil
}

func setupLogging(level string) error {
	if env, ok := os.LookupEnv(envLogLevel); ok && level == "" {
		level = env
	}
	if level == "" {
		level = logrus.WarnLevel.String()
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	log.SetOutput(os.Stderr)
	return nil
}

// loadGameConfig layers the config sources: defaults, then the YAML config
// file, then environment, then command-line flags explicitly set
func loadGameConfig(cmd *cobra.Command, flagConfig game.GameConfig, configPath, boardPath string) (game.GameConfig, error) {
	config := game.NewGameConfig()

	if configPath == "" {
		configPath = os.Getenv(envConfig)
	}
	if configPath != "" {
		var err error
		if config, err = game.LoadConfig(configPath); err != nil {
			return config, err
		}
	}

	if seed, ok := os.LookupEnv(envSeed); ok {
		parsed, err := strconv.ParseUint(strings.TrimSpace(seed), 10, 64)
		if err != nil {
			return config, fmt.Errorf("invalid %s: %w", envSeed, err)
		}
		config.Seed = parsed
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		config.Width = flagConfig.Width
	}
	if flags.Changed("height") {
		config.Height = flagConfig.Height
	}
	if flags.Changed("difficulty") {
		config.Difficulty = flagConfig.Difficulty
	}
	if flags.Changed("colors") {
		config.Colors = flagConfig.Colors
	}
	if flags.Changed("seed") {
		config.Seed = flagConfig.Seed
	}
	if flags.Changed("wave-delay") {
		config.WaveDelay = flagConfig.WaveDelay
	}
	if flags.Changed("reverse-flags") {
		config.Policy.FlagDirection = flagConfig.Policy.FlagDirection
	}
	if flags.Changed("chord-on-secondary") {
		config.Policy.ChordOnSecondary = flagConfig.Policy.ChordOnSecondary
	}

	if boardPath != "" {
		b, err := os.ReadFile(boardPath)
		if err != nil {
			return config, err
		}
		snapshot, err := game.LoadSnapshot(string(b))
		if err != nil {
			return config, fmt.Errorf("%s: %w", boardPath, err)
		}
		config.Snapshot = snapshot
	}

	return config, config.Validate()
}
