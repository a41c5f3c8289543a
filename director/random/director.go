package random

import (
	"context"
	"math/rand/v2"

	"github.com/they4kman/chromasweep/game"
)

// Director discovers hidden cells at random
type Director struct {
	rand    *rand.Rand
	session *game.Session
}

func New(r *rand.Rand) *Director {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Director{rand: r}
}

func (director *Director) Init(session *game.Session) {
	director.session = session
}

func (director *Director) Act(ctx context.Context) error {
	var (
		target game.Point
		found  bool
	)
	director.session.View(func(grid *game.Grid) {
		target, found = director.Pick(grid)
	})
	if !found {
		return game.ErrNoMoves
	}

	_, err := director.session.Discover(ctx, target.X, target.Y, nil)
	return err
}

// Pick chooses a hidden, unflagged cell uniformly. Before the grid exists,
// any cell of the configured size is a candidate.
func (director *Director) Pick(grid *game.Grid) (game.Point, bool) {
	if grid == nil {
		width, height := director.session.Config().Dimensions()
		if width <= 0 || height <= 0 {
			return game.Point{}, false
		}
		return game.Point{X: director.rand.IntN(width), Y: director.rand.IntN(height)}, true
	}

	var candidates []game.Point
	for _, cell := range grid.Cells() {
		if cell.IsHidden() {
			candidates = append(candidates, cell.Point())
		}
	}
	if len(candidates) == 0 {
		return game.Point{}, false
	}
	return candidates[director.rand.IntN(len(candidates))], true
}

func (director *Director) End() {
	director.session = nil
}
