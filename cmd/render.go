package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/they4kman/chromasweep/game"
)

// renderGrid writes the grid as text, one character per cell: '#' hidden,
// '.' no adjacent mine, the adjacent mine count, '*' mine, 'F' flag
func renderGrid(w io.Writer, grid *game.Grid, colored bool) {
	if grid == nil {
		fmt.Fprintln(w, "(no grid yet: discover or flag a cell to start)")
		return
	}

	var b strings.Builder

	b.WriteString("    ")
	for x := 0; x < grid.Width(); x++ {
		fmt.Fprintf(&b, "%-2d", x%100)
	}
	b.WriteByte('\n')

	for y := 0; y < grid.Height(); y++ {
		fmt.Fprintf(&b, "%3d ", y)
		for x := 0; x < grid.Width(); x++ {
			b.WriteString(renderCell(grid, grid.CellAt(x, y), colored))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	io.WriteString(w, b.String())
}

func renderCell(grid *game.Grid, cell *game.Cell, colored bool) string {
	switch {
	case cell.IsFlagged():
		flagColor, _ := grid.FlagColor(cell)
		return paint("F", flagColor.FlagTint(), colored)
	case cell.IsHidden():
		return "#"
	case cell.IsMine():
		return paint("*", cell.Color(), colored)
	case cell.NumMines() == 0:
		return "."
	}

	// A number takes the colour of its adjacent mines when they all share one
	label := fmt.Sprint(cell.NumMines())
	if colors := cell.Proximity().Colors(grid.Palette()); len(colors) == 1 {
		return paint(label, colors[0], colored)
	}
	return label
}

func paint(s string, c game.Color, colored bool) string {
	if !colored || !c.Valid() {
		return s
	}
	rgba := c.RGBA()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", rgba.R, rgba.G, rgba.B, s)
}

func renderLegend(w io.Writer, palette game.Palette, colored bool) {
	parts := make([]string, len(palette))
	for i, c := range palette {
		parts[i] = fmt.Sprintf("%s=%s", paint("*", c, colored), c)
	}
	fmt.Fprintf(w, "traps: %s\n", strings.Join(parts, " "))
}
