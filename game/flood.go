package game

import (
	"github.com/gammazero/deque"
	"github.com/they4kman/chromasweep/util/collections"
)

// WaveFunc receives the cells uncovered together by one step of a cascade
type WaveFunc func(wave []*Cell)

// Cascade is a flood-fill reveal driven one wave at a time. Each call to Next
// uncovers a batch of cells and queues the neighbours of the zero-proximity
// ones for the following wave, so callers may pause (animate, render, let
// other readers in) between waves.
type Cascade struct {
	grid     *Grid
	frontier deque.Deque
	visited  collections.Set[Point]
}

func newCascade(grid *Grid, x, y int) *Cascade {
	cascade := &Cascade{
		grid:    grid,
		visited: make(collections.Set[Point]),
	}
	cascade.frontier.PushBack(Point{x, y})
	return cascade
}

// Done reports whether the frontier is exhausted
func (cascade *Cascade) Done() bool {
	return cascade.frontier.Len() == 0
}

// Next uncovers the next wave and returns it. A wave which uncovers nothing
// ends the cascade, even if it queued neighbours (e.g. of flagged zero
// cells). Returns nil once done.
func (cascade *Cascade) Next() []*Cell {
	if cascade.Done() {
		return nil
	}

	wave := cascade.step()
	if len(wave) == 0 {
		for cascade.frontier.Len() > 0 {
			cascade.frontier.PopFront()
		}
		return nil
	}
	return wave
}

// Run drives the cascade to completion, passing each wave to onWave
func (cascade *Cascade) Run(onWave WaveFunc) {
	for wave := cascade.Next(); wave != nil; wave = cascade.Next() {
		if onWave != nil {
			onWave(wave)
		}
	}
}

func (cascade *Cascade) step() []*Cell {
	var uncover []*Cell

	for n := cascade.frontier.Len(); n > 0; n-- {
		pt := cascade.frontier.PopFront().(Point)
		if !cascade.visited.AddNew(pt) {
			continue
		}

		cell := cascade.grid.CellAt(pt.X, pt.Y)
		if cell == nil {
			continue
		}

		if cell.visibility == Hidden {
			uncover = append(uncover, cell)
		}

		if cell.isZero() {
			for _, neighbor := range cascade.grid.Neighbors(cell.x, cell.y) {
				if !cascade.visited.Contains(neighbor.Point()) {
					cascade.frontier.PushBack(neighbor.Point())
				}
			}
		}
	}

	// The whole wave is committed at once
	for _, cell := range uncover {
		cell.visibility = Visible
	}

	return uncover
}
