package game

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// MineCount returns the number of mines a grid of the given size and
// difficulty holds
func MineCount(width, height int, difficulty float64) int {
	return int(math.Ceil(float64(width*height) * difficulty))
}

// CreateGrid places ceil(width*height*difficulty) mines of uniformly chosen
// colours, never on (safeX, safeY). Whenever a placement covers the safe cell,
// the whole placement is thrown away and drawn again.
func CreateGrid(width, height int, difficulty float64, colors Palette, safeX, safeY int, r *rand.Rand) (*Grid, error) {
	return generateGrid(width, height, difficulty, colors, safeX, safeY, r, MaxGenerationAttempts)
}

func generateGrid(width, height int, difficulty float64, colors Palette, safeX, safeY int, r *rand.Rand, maxAttempts int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if math.IsNaN(difficulty) || difficulty <= 0 || difficulty >= 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDifficulty, difficulty)
	}
	if len(colors) == 0 {
		return nil, ErrEmptyPalette
	}
	if safeX < 0 || safeY < 0 || safeX >= width || safeY >= height {
		return nil, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrSafeCellOutOfBounds, safeX, safeY, width, height)
	}

	numCells := width * height
	numMines := MineCount(width, height, difficulty)
	if numMines >= numCells {
		return nil, fmt.Errorf("%w: %d mines in %d cells", ErrInfeasible, numMines, numCells)
	}

	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	log := Log.WithFields(logrus.Fields{
		"width":  width,
		"height": height,
		"mines":  numMines,
		"safe":   Point{safeX, safeY},
	})

	safeIdx := safeY*width + safeX

	// Store cell indexes, to shuffle and pick mines from
	cellIndexes := make([]int, numCells)
	for i := range cellIndexes {
		cellIndexes[i] = i
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r.Shuffle(len(cellIndexes), func(i, j int) {
			cellIndexes[i], cellIndexes[j] = cellIndexes[j], cellIndexes[i]
		})

		mineIndexes := cellIndexes[:numMines]
		if containsIndex(mineIndexes, safeIdx) {
			log.WithField("attempt", attempt).Debug("safe cell mined, regenerating")
			continue
		}

		grid := newGrid(width, height, colors)
		for _, idx := range mineIndexes {
			grid.setMine(&grid.cells[idx], colors[r.IntN(len(colors))])
		}
		grid.fillProximity()

		log.WithField("attempts", attempt).Debug("grid generated")
		return grid, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrGenerationExhausted, maxAttempts)
}

func containsIndex(indexes []int, idx int) bool {
	for _, i := range indexes {
		if i == idx {
			return true
		}
	}
	return false
}

// RevealAllMines discloses every mine, leaving empty cells as they are
func RevealAllMines(grid *Grid) {
	if grid == nil {
		return
	}
	for i := range grid.cells {
		if cell := &grid.cells[i]; cell.isMine {
			cell.visibility = Visible
		}
	}
}
