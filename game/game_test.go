package game

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(config *GameConfig)
		valid  bool
	}{
		{name: "defaults", modify: func(*GameConfig) {}, valid: true},
		{name: "smallest", modify: func(c *GameConfig) { c.Width, c.Height = MinWidth, MinHeight }, valid: true},
		{name: "largest", modify: func(c *GameConfig) { c.Width, c.Height, c.Difficulty = MaxWidth, MaxHeight, MaxDifficulty }, valid: true},
		{name: "too narrow", modify: func(c *GameConfig) { c.Width = MinWidth - 1 }},
		{name: "too wide", modify: func(c *GameConfig) { c.Width = MaxWidth + 1 }},
		{name: "too short", modify: func(c *GameConfig) { c.Height = MinHeight - 1 }},
		{name: "too tall", modify: func(c *GameConfig) { c.Height = MaxHeight + 1 }},
		{name: "no mines", modify: func(c *GameConfig) { c.Difficulty = 0 }},
		{name: "too many mines", modify: func(c *GameConfig) { c.Difficulty = 0.95 }},
		{name: "no colours", modify: func(c *GameConfig) { c.Colors = nil }},
		{name: "duplicate colours", modify: func(c *GameConfig) { c.Colors = Palette{Red, Red} }},
		{name: "too many colours", modify: func(c *GameConfig) { c.Colors = namedPalette(MaxPaletteColors + 1) }},
		{name: "flag direction", modify: func(c *GameConfig) { c.Policy.FlagDirection = 0 }},
		{name: "reverse flags", modify: func(c *GameConfig) { c.Policy.FlagDirection = -1 }, valid: true},
		{name: "negative delay", modify: func(c *GameConfig) { c.WaveDelay = -time.Second }},
		{name: "no delay", modify: func(c *GameConfig) { c.WaveDelay = 0 }, valid: true},
		{
			name: "small snapshot",
			modify: func(c *GameConfig) {
				c.Width = 0
				c.Snapshot = &GridSnapshot{Palette: Palette{Red}, Mines: cornerMine}
			},
			valid: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := NewGameConfig()
			test.modify(&config)

			if err := config.Validate(); test.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chromasweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
width: 16
height: 12
colors: [red, royalblue]
seed: 42
wave_delay: 10ms
policy:
  flag_direction: -1
  chord_on_secondary: true
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 16, config.Width)
	assert.Equal(t, 12, config.Height)
	assert.Equal(t, 0.1, config.Difficulty)
	assert.Equal(t, Palette{Red, Blue}, config.Colors)
	assert.Equal(t, uint64(42), config.Seed)
	assert.Equal(t, 10*time.Millisecond, config.WaveDelay)
	assert.Equal(t, InputPolicy{FlagDirection: -1, ChordOnSecondary: true}, config.Policy)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [wide"), 0o644))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGameConfigDimensions(t *testing.T) {
	config := NewGameConfig()
	width, height := config.Dimensions()
	assert.Equal(t, 30, width)
	assert.Equal(t, 20, height)

	config.Snapshot = &GridSnapshot{Palette: Palette{Red}, Mines: "a..\n...\n..."}
	width, height = config.Dimensions()
	assert.Equal(t, 3, width)
	assert.Equal(t, 3, height)
}

func TestGameConfigCreateGrid(t *testing.T) {
	config := NewGameConfig()
	config.Snapshot = &GridSnapshot{Palette: Palette{Red}, Mines: cornerMine, Visibility: "a###\n####\n####\n###."}

	// A fresh load drops the recorded visibility
	grid, err := config.createGrid(0, 0, nil)
	require.NoError(t, err)
	for _, cell := range grid.Cells() {
		assert.Equal(t, Hidden, cell.Visibility())
	}

	config.LoadSnapshotFresh = false
	grid, err = config.createGrid(0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Flagged(0), grid.CellAt(0, 0).Visibility())
	assert.Equal(t, Visible, grid.CellAt(3, 3).Visibility())

	config.Snapshot = nil
	grid, err = config.createGrid(4, 4, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Equal(t, 30, grid.Width())
	assert.Equal(t, 60, grid.NumMines())
	assert.False(t, grid.CellAt(4, 4).IsMine())
}
