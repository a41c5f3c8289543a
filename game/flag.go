package game

// FlagCell steps the flag state of (x, y) through
// [Hidden, Flagged(0), ..., Flagged(k-1)] in the given direction, wrapping
// around. Visible cells are left alone.
func FlagCell(grid *Grid, x, y, direction int) {
	cell := grid.CellAt(x, y)
	if cell == nil || cell.IsRevealed() {
		return
	}

	switch {
	case direction > 0:
		direction = 1
	case direction < 0:
		direction = -1
	default:
		return
	}

	// Position within the cycle: 0 is Hidden, i+1 is Flagged(i)
	numStates := len(grid.palette) + 1
	pos := 0
	if idx, ok := cell.visibility.FlagIndex(); ok {
		pos = idx + 1
	}

	pos = ((pos+direction)%numStates + numStates) % numStates
	if pos == 0 {
		cell.visibility = Hidden
	} else {
		cell.visibility = Flagged(pos - 1)
	}
}

// FlagOrToggleCell flags (x, y) with color, or unflags it if it already
// carries that flag. Used by input devices with a single "place flag" action
// and a selected colour.
func FlagOrToggleCell(grid *Grid, x, y int, color Color) {
	cell := grid.CellAt(x, y)
	if cell == nil || cell.IsRevealed() {
		return
	}

	idx := grid.palette.Index(color)
	if idx < 0 {
		return
	}

	if cell.visibility == Flagged(idx) {
		cell.visibility = Hidden
	} else {
		cell.visibility = Flagged(idx)
	}
}
