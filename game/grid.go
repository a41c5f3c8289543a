package game

var neighborOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

type Grid struct {
	width, height int // in number of cells
	numMines      int
	palette       Palette

	cells []Cell // row-major
}

// newGrid allocates a grid of hidden, mine-less cells
func newGrid(width, height int, palette Palette) *Grid {
	grid := &Grid{
		width:   width,
		height:  height,
		palette: append(Palette(nil), palette...),
		cells:   make([]Cell, width*height),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := &grid.cells[y*width+x]
			cell.x, cell.y = x, y
			cell.visibility = Hidden
		}
	}

	return grid
}

func (grid *Grid) Width() int {
	return grid.width
}

func (grid *Grid) Height() int {
	return grid.height
}

func (grid *Grid) NumCells() int {
	return grid.width * grid.height
}

func (grid *Grid) NumMines() int {
	return grid.numMines
}

func (grid *Grid) Palette() Palette {
	return grid.palette
}

func (grid *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < grid.width && y < grid.height
}

// CellAt returns the cell at (x, y), or nil if out of bounds
func (grid *Grid) CellAt(x, y int) *Cell {
	if grid == nil || !grid.InBounds(x, y) {
		return nil
	}
	return &grid.cells[y*grid.width+x]
}

// Cells returns every cell, row by row
func (grid *Grid) Cells() []*Cell {
	cells := make([]*Cell, len(grid.cells))
	for i := range grid.cells {
		cells[i] = &grid.cells[i]
	}
	return cells
}

// Neighbors returns the in-bounds cells of the 8-neighbourhood of (x, y)
func (grid *Grid) Neighbors(x, y int) []*Cell {
	neighbors := make([]*Cell, 0, len(neighborOffsets))
	for _, offset := range neighborOffsets {
		if neighbor := grid.CellAt(x+offset.X, y+offset.Y); neighbor != nil {
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}

// FlagColor returns the colour a cell is flagged with
func (grid *Grid) FlagColor(cell *Cell) (Color, bool) {
	idx, ok := cell.visibility.FlagIndex()
	if !ok || idx >= len(grid.palette) {
		return "", false
	}
	return grid.palette[idx], true
}

// setMine turns a cell into a mine. Proximities are left stale until
// fillProximity runs.
func (grid *Grid) setMine(cell *Cell, color Color) {
	if !cell.isMine {
		grid.numMines++
	}
	cell.isMine = true
	cell.color = color
	cell.proximity = nil
}

// fillProximity recomputes the proximity of every non-mine cell from scratch
func (grid *Grid) fillProximity() {
	for i := range grid.cells {
		cell := &grid.cells[i]
		if cell.isMine {
			continue
		}

		cell.proximity = nil
		for _, neighbor := range grid.Neighbors(cell.x, cell.y) {
			if !neighbor.isMine {
				continue
			}
			if cell.proximity == nil {
				cell.proximity = make(Proximity)
			}
			cell.proximity[neighbor.color]++
		}
	}
}
