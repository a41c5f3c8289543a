package game

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// InputPolicy binds the secondary action (right click, long press) of an
// input device. Different devices disagree on it, so it is not the engine's
// choice.
type InputPolicy struct {
	// Step direction when cycling flags, +1 or -1
	FlagDirection int `yaml:"flag_direction"`
	// Whether the secondary action on a visible cell chords it
	ChordOnSecondary bool `yaml:"chord_on_secondary"`
}

type GameConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Difficulty float64 `yaml:"difficulty"`
	Colors     Palette `yaml:"colors,flow"`

	// 0 picks a random seed
	Seed uint64 `yaml:"seed"`

	// Pause between two waves of a cascade
	WaveDelay time.Duration `yaml:"wave_delay"`

	Policy InputPolicy `yaml:"policy"`

	// Snapshot to load the grid from, instead of generating one
	Snapshot *GridSnapshot `yaml:"-"`
	// Whether to set all cells hidden when loading the Snapshot
	LoadSnapshotFresh bool `yaml:"-"`
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Width:      30,
		Height:     20,
		Difficulty: 0.1,
		Colors:     DefaultPalette(),
		WaveDelay:  50 * time.Millisecond,
		Policy: InputPolicy{
			FlagDirection:    1,
			ChordOnSecondary: false,
		},
		LoadSnapshotFresh: true,
	}
}

// LoadConfig reads a YAML config file over the defaults
func LoadConfig(path string) (GameConfig, error) {
	config := NewGameConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(b, &config); err != nil {
		return config, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return config, nil
}

// Validate enforces the limits of a playable game. Dimensions are not checked
// when the grid comes from a snapshot.
func (config GameConfig) Validate() error {
	if config.Snapshot == nil {
		if config.Width < MinWidth || config.Width > MaxWidth {
			return fmt.Errorf("%w: width %d not within [%d, %d]", ErrInvalidConfig, config.Width, MinWidth, MaxWidth)
		}
		if config.Height < MinHeight || config.Height > MaxHeight {
			return fmt.Errorf("%w: height %d not within [%d, %d]", ErrInvalidConfig, config.Height, MinHeight, MaxHeight)
		}
		if !(config.Difficulty > 0 && config.Difficulty <= MaxDifficulty) {
			return fmt.Errorf("%w: difficulty %v not within (0, %v]", ErrInvalidConfig, config.Difficulty, MaxDifficulty)
		}
		if err := config.Colors.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if config.Policy.FlagDirection != 1 && config.Policy.FlagDirection != -1 {
		return fmt.Errorf("%w: flag direction must be 1 or -1", ErrInvalidConfig)
	}
	if config.WaveDelay < 0 {
		return fmt.Errorf("%w: negative wave delay", ErrInvalidConfig)
	}
	return nil
}

func (config GameConfig) Fields() logrus.Fields {
	fields := logrus.Fields{
		"seed":       config.Seed,
		"wave_delay": config.WaveDelay.String(),
	}
	if config.Snapshot != nil {
		fields["snapshot"] = true
		fields["colors"] = config.Snapshot.Palette.String()
	} else {
		fields["width"] = config.Width
		fields["height"] = config.Height
		fields["difficulty"] = config.Difficulty
		fields["colors"] = config.Colors.String()
	}
	return fields
}

// Dimensions returns the size of the grid the config produces
func (config GameConfig) Dimensions() (width, height int) {
	if config.Snapshot == nil {
		return config.Width, config.Height
	}
	rows := snapshotRows(config.Snapshot.Mines)
	if len(rows) == 0 {
		return 0, 0
	}
	return len(rows[0]), len(rows)
}

// createGrid builds the grid for a game whose first action targets (x, y)
func (config GameConfig) createGrid(x, y int, r *rand.Rand) (*Grid, error) {
	if config.Snapshot == nil {
		return CreateGrid(config.Width, config.Height, config.Difficulty, config.Colors, x, y, r)
	}

	grid, err := config.Snapshot.Grid()
	if err != nil {
		return nil, err
	}
	if config.LoadSnapshotFresh {
		for i := range grid.cells {
			grid.cells[i].visibility = Hidden
		}
	}
	return grid, nil
}
