package game

// cascadeDriver runs a cascade to completion; the session uses it to pace
// waves and commit them under its lock
type cascadeDriver func(cascade *Cascade)

// DiscoverCell reveals (x, y): a hidden cell starts a flood-fill, a visible
// one is chorded, and a flagged one is left alone. Returns whether a mine was
// uncovered.
func DiscoverCell(grid *Grid, x, y int, onWave WaveFunc) bool {
	return grid.discover(x, y, func(cascade *Cascade) {
		cascade.Run(onWave)
	})
}

func (grid *Grid) discover(x, y int, drive cascadeDriver) bool {
	cell := grid.CellAt(x, y)
	if cell == nil {
		return false
	}

	switch {
	case cell.IsFlagged():
		return false
	case cell.visibility == Hidden:
		return grid.uncoverFrom(cell, drive)
	default:
		return grid.chord(cell, drive)
	}
}

// uncoverFrom floods outwards from cell. A mine is uncovered alone, as it
// never has zero proximity.
func (grid *Grid) uncoverFrom(cell *Cell, drive cascadeDriver) bool {
	if cell.visibility != Hidden {
		return false
	}

	drive(newCascade(grid, cell.x, cell.y))
	return cell.isMine
}

// chord uncovers every unflagged neighbour of a visible cell, once as many
// neighbours are flagged (of any colour) as it has adjacent mines
func (grid *Grid) chord(cell *Cell, drive cascadeDriver) bool {
	// Only a disclosed mine of a finished game gets here
	if cell.isMine {
		return true
	}

	neighbors := grid.Neighbors(cell.x, cell.y)

	numFlagged := 0
	for _, neighbor := range neighbors {
		if neighbor.IsFlagged() {
			numFlagged++
		}
	}

	if numFlagged != cell.NumMines() {
		return cell.isMine
	}

	hitMine := false
	for _, neighbor := range neighbors {
		if neighbor.IsFlagged() {
			continue
		}
		if grid.uncoverFrom(neighbor, drive) {
			hitMine = true
		}
	}
	return hitMine
}
