package constraint

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/chromasweep/director/random"
	"github.com/they4kman/chromasweep/game"
	"github.com/they4kman/chromasweep/util/collections"
)

// Director plays deductively: it reads every visible number as a constraint
// on its hidden neighbours, uncovers cells proven safe and flags cells proven
// to be mines of a known colour. When nothing can be proven, it uncovers the
// cell least likely to be a mine.
type Director struct {
	random.Director

	rand    *rand.Rand
	session *game.Session
}

func New(r *rand.Rand) *Director {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Director{
		Director: *random.New(r),
		rand:     r,
	}
}

// Observation is the constraint a visible number puts on its hidden,
// unflagged neighbours: exactly remaining[c] of them are mines of colour c
type Observation struct {
	origin    game.Point
	remaining map[game.Color]int
	cells     collections.Set[game.Point]
}

func (observation Observation) String() string {
	cells := make([]string, 0, len(observation.cells))
	for pt := range observation.cells {
		cells = append(cells, pt.String())
	}
	sort.Strings(cells)

	return fmt.Sprintf("Obs[%8s, %d ε %s]", observation.origin, observation.numMines(), strings.Join(cells, ", "))
}

func (observation Observation) numMines() int {
	total := 0
	for _, n := range observation.remaining {
		total += n
	}
	return total
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines()) / float64(len(observation.cells))
}

// onlyColor returns the single colour with unflagged mines left, if any
func onlyColor(remaining map[game.Color]int) (game.Color, bool) {
	var only game.Color
	for c, n := range remaining {
		if n == 0 {
			continue
		}
		if only != "" {
			return "", false
		}
		only = c
	}
	return only, only != ""
}

type moveKind int

const (
	uncover moveKind = iota
	flag
)

type move struct {
	kind   moveKind
	cells  []game.Point
	color  game.Color
	reason string
}

func (director *Director) Init(session *game.Session) {
	director.session = session
	director.Director.Init(session)
}

func (director *Director) Act(ctx context.Context) error {
	var (
		next    move
		found   bool
		started bool
	)
	director.session.View(func(grid *game.Grid) {
		if grid == nil {
			return
		}
		started = true

		observations := observe(grid)
		next, found = actDeliberate(observations)
		if !found {
			next, found = director.actLowestProbability(grid, observations)
		}
	})

	if !started {
		return director.Director.Act(ctx)
	}
	if !found {
		return game.ErrNoMoves
	}

	game.Log.WithFields(logrus.Fields{
		"session": director.session.ID().String(),
		"reason":  next.reason,
		"cells":   len(next.cells),
	}).Debug("director move")

	for _, pt := range next.cells {
		var err error
		switch next.kind {
		case uncover:
			_, err = director.session.Discover(ctx, pt.X, pt.Y, nil)
		case flag:
			err = director.session.FlagWith(ctx, pt.X, pt.Y, next.color)
		}
		if err != nil {
			return err
		}
		if director.session.State().IsOver() {
			break
		}
	}
	return nil
}

func (director *Director) End() {
	director.Director.End()
	director.session = nil
}

// observe builds one observation per visible number with hidden neighbours.
// Flags are trusted: each one is subtracted from its own colour's count.
func observe(grid *game.Grid) []*Observation {
	var observations []*Observation

	for _, cell := range grid.Cells() {
		if !cell.IsRevealed() || cell.IsMine() || cell.NumMines() == 0 {
			continue
		}

		observation := &Observation{
			origin:    cell.Point(),
			remaining: make(map[game.Color]int, len(cell.Proximity())),
			cells:     make(collections.Set[game.Point]),
		}
		for c, n := range cell.Proximity() {
			observation.remaining[c] = n
		}

		for _, neighbor := range grid.Neighbors(cell.X(), cell.Y()) {
			switch {
			case neighbor.IsFlagged():
				if c, ok := grid.FlagColor(neighbor); ok {
					observation.remaining[c]--
				}
			case neighbor.IsHidden():
				observation.cells.Add(neighbor.Point())
			}
		}

		if len(observation.cells) > 0 {
			observations = append(observations, observation)
		}
	}

	return observations
}

func actDeliberate(observations []*Observation) (move, bool) {
	for _, observation := range observations {
		if m, ok := deduce(observation.cells, observation.remaining, observation.String()); ok {
			return m, true
		}
	}

	// Where one observation's cells are a subset of another's, the cells only
	// the larger one covers hold the difference of their mines, colour by colour
	for _, small := range observations {
		for _, large := range observations {
			if small == large || len(small.cells) >= len(large.cells) {
				continue
			}
			if small.cells.Intersection(large.cells).Len() != len(small.cells) {
				continue
			}

			remaining := make(map[game.Color]int, len(large.remaining))
			for c, n := range large.remaining {
				remaining[c] = n - small.remaining[c]
			}
			reason := fmt.Sprintf("%s ⊂ %s", small, large)
			if m, ok := deduce(large.cells.Difference(small.cells), remaining, reason); ok {
				return m, true
			}
		}
	}

	return move{}, false
}

// deduce finds a certain move for a set of cells holding exactly remaining[c]
// mines of each colour c
func deduce(cells collections.Set[game.Point], remaining map[game.Color]int, reason string) (move, bool) {
	if len(cells) == 0 {
		return move{}, false
	}

	numMines := 0
	for _, n := range remaining {
		if n < 0 {
			// A flag is wrong somewhere; nothing here can be trusted
			return move{}, false
		}
		numMines += n
	}

	switch {
	case numMines == 0:
		return move{kind: uncover, cells: sortedPoints(cells), reason: reason}, true
	case numMines == len(cells):
		if c, ok := onlyColor(remaining); ok {
			return move{kind: flag, cells: sortedPoints(cells), color: c, reason: reason}, true
		}
	}
	return move{}, false
}

// actLowestProbability uncovers the hidden cell with the lowest estimated
// chance of holding a mine. Cells next to no number are estimated from the
// mines left over the whole grid.
func (director *Director) actLowestProbability(grid *game.Grid, observations []*Observation) (move, bool) {
	cellProbabilities := make(map[game.Point]float64)
	for _, observation := range observations {
		probability := observation.MineProbability()
		for pt := range observation.cells {
			if past, ok := cellProbabilities[pt]; !ok || probability > past {
				cellProbabilities[pt] = probability
			}
		}
	}

	unconstrained := make(collections.Set[game.Point])
	numFlags := 0
	for _, cell := range grid.Cells() {
		switch {
		case cell.IsFlagged():
			numFlags++
		case cell.IsHidden():
			unconstrained.Add(cell.Point())
		}
	}
	numHidden := unconstrained.Len()
	if numHidden == 0 {
		return move{}, false
	}

	for pt := range cellProbabilities {
		unconstrained.Remove(pt)
	}
	for pt := range unconstrained {
		cellProbabilities[pt] = float64(grid.NumMines()-numFlags) / float64(numHidden)
	}

	lowest := 2.0
	var lowestCells []game.Point
	for _, pt := range sortedPoints(collections.NewSet(keys(cellProbabilities)...)) {
		switch probability := cellProbabilities[pt]; {
		case probability < lowest:
			lowest = probability
			lowestCells = []game.Point{pt}
		case probability == lowest:
			lowestCells = append(lowestCells, pt)
		}
	}

	// Every remaining hidden cell is a mine
	if lowest >= 1 {
		return move{}, false
	}

	pick := lowestCells[director.rand.IntN(len(lowestCells))]
	return move{
		kind:   uncover,
		cells:  []game.Point{pick},
		reason: fmt.Sprintf("lowest probability %.2f", lowest),
	}, true
}

func keys(m map[game.Point]float64) []game.Point {
	pts := make([]game.Point, 0, len(m))
	for pt := range m {
		pts = append(pts, pt)
	}
	return pts
}

// sortedPoints orders points row by row, keeping moves reproducible for a seed
func sortedPoints(set collections.Set[game.Point]) []game.Point {
	pts := set.Slice()
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	return pts
}
