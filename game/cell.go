package game

import (
	"fmt"
	"sort"
)

type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Proximity counts adjacent mines per colour. Only non-zero counts are stored.
type Proximity map[Color]int

// Total returns the number of adjacent mines of any colour
func (p Proximity) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Colors returns the colours with adjacent mines, in palette order
func (p Proximity) Colors(palette Palette) []Color {
	colors := make([]Color, 0, len(p))
	for c := range p {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		return palette.Index(colors[i]) < palette.Index(colors[j])
	})
	return colors
}

type Cell struct {
	x, y int

	isMine    bool
	color     Color
	proximity Proximity

	visibility Visibility
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.x, cell.y)
}

func (cell *Cell) X() int {
	return cell.x
}

func (cell *Cell) Y() int {
	return cell.y
}

func (cell *Cell) Point() Point {
	return Point{cell.x, cell.y}
}

func (cell *Cell) IsMine() bool {
	return cell.isMine
}

// Color of a mine cell; empty for non-mines
func (cell *Cell) Color() Color {
	return cell.color
}

func (cell *Cell) Proximity() Proximity {
	return cell.proximity
}

// NumMines returns the total number of adjacent mines; always 0 for mines
func (cell *Cell) NumMines() int {
	return cell.proximity.Total()
}

func (cell *Cell) Visibility() Visibility {
	return cell.visibility
}

func (cell *Cell) IsRevealed() bool {
	return cell.visibility == Visible
}

func (cell *Cell) IsHidden() bool {
	return cell.visibility == Hidden
}

func (cell *Cell) IsFlagged() bool {
	return cell.visibility.IsFlag()
}

// isZero reports whether a reveal of this cell should cascade to its neighbours
func (cell *Cell) isZero() bool {
	return !cell.isMine && len(cell.proximity) == 0
}
