package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	snapshotEmpty   = '.'
	snapshotHidden  = '#'
	snapshotVisible = '.'
	// Mines and flags are written as 'a' + palette index
	snapshotColorBase = 'a'
)

// GridSnapshot is a textual description of a grid, one character per cell and
// one line per row. Mines holds the layout ('.' for empty cells, a letter per
// mine colour); Visibility, if set, holds what the player sees ('#' hidden,
// '.' visible, a letter per flag colour).
type GridSnapshot struct {
	Palette    Palette `yaml:"palette,flow"`
	Mines      string  `yaml:"mines"`
	Visibility string  `yaml:"visibility,omitempty"`
}

func (snapshot *GridSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

func LoadSnapshot(in string) (*GridSnapshot, error) {
	var snapshot GridSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return &snapshot, nil
}

func snapshotRows(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	rows := strings.Split(s, "\n")
	for i, row := range rows {
		rows[i] = strings.TrimSpace(row)
	}
	return rows
}

func colorIndex(c byte, numColors int) (int, bool) {
	idx := int(c) - snapshotColorBase
	return idx, idx >= 0 && idx < numColors
}

// Grid builds the grid the snapshot describes. Proximities are computed from
// the layout, never read from the snapshot.
func (snapshot *GridSnapshot) Grid() (*Grid, error) {
	if err := snapshot.Palette.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	rows := snapshotRows(snapshot.Mines)
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidSnapshot)
	}

	height, width := len(rows), len(rows[0])
	grid := newGrid(width, height, snapshot.Palette)

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidSnapshot, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			if row[x] == snapshotEmpty {
				continue
			}
			idx, ok := colorIndex(row[x], len(grid.palette))
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrInvalidSnapshot, row[x], x, y)
			}
			grid.setMine(grid.CellAt(x, y), grid.palette[idx])
		}
	}
	grid.fillProximity()

	if snapshot.Visibility == "" {
		return grid, nil
	}

	rows = snapshotRows(snapshot.Visibility)
	if len(rows) != height {
		return nil, fmt.Errorf("%w: visibility has %d rows, expected %d", ErrInvalidSnapshot, len(rows), height)
	}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: visibility row %d has %d cells, expected %d", ErrInvalidSnapshot, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			cell := grid.CellAt(x, y)
			switch c := row[x]; c {
			case snapshotHidden:
				cell.visibility = Hidden
			case snapshotVisible:
				cell.visibility = Visible
			default:
				idx, ok := colorIndex(c, len(grid.palette))
				if !ok {
					return nil, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrInvalidSnapshot, c, x, y)
				}
				cell.visibility = Flagged(idx)
			}
		}
	}

	return grid, nil
}

// Snapshot describes the grid's layout and current visibility
func (grid *Grid) Snapshot() *GridSnapshot {
	var mines, visibility strings.Builder

	for y := 0; y < grid.height; y++ {
		if y > 0 {
			mines.WriteByte('\n')
			visibility.WriteByte('\n')
		}
		for x := 0; x < grid.width; x++ {
			cell := grid.CellAt(x, y)

			if cell.isMine {
				mines.WriteByte(byte(snapshotColorBase + grid.palette.Index(cell.color)))
			} else {
				mines.WriteByte(snapshotEmpty)
			}

			switch idx, isFlag := cell.visibility.FlagIndex(); {
			case isFlag:
				visibility.WriteByte(byte(snapshotColorBase + idx))
			case cell.visibility == Visible:
				visibility.WriteByte(snapshotVisible)
			default:
				visibility.WriteByte(snapshotHidden)
			}
		}
	}

	return &GridSnapshot{
		Palette:    append(Palette(nil), grid.palette...),
		Mines:      mines.String(),
		Visibility: visibility.String(),
	}
}
