package game

// IsGameWon reports whether every empty cell is visible and every mine is
// flagged with its own colour. A flag of the wrong colour does not count.
func IsGameWon(grid *Grid) bool {
	if grid == nil {
		return false
	}

	for i := range grid.cells {
		cell := &grid.cells[i]
		if !cell.isMine {
			if cell.visibility != Visible {
				return false
			}
			continue
		}

		flagColor, ok := grid.FlagColor(cell)
		if !ok || flagColor != cell.color {
			return false
		}
	}
	return true
}
