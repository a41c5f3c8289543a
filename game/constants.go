package game

import "fmt"

// Visibility of a cell. Non-negative values are flags, indexing the grid's
// palette; a palette of one colour behaves as a plain boolean flag.
type Visibility int

const (
	Hidden Visibility = iota - 2
	Visible
)

// Flagged returns the visibility of a cell flagged with the palette colour at idx
func Flagged(idx int) Visibility {
	if idx < 0 {
		panic(fmt.Sprintf("invalid flag index %d", idx))
	}
	return Visibility(idx)
}

func (v Visibility) IsFlag() bool {
	return v >= 0
}

// FlagIndex returns the palette index of a flag, and false for Hidden/Visible
func (v Visibility) FlagIndex() (int, bool) {
	if !v.IsFlag() {
		return 0, false
	}
	return int(v), true
}

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return fmt.Sprintf("flagged(%d)", int(v))
	}
}

type BoardState int

const (
	Ready BoardState = iota
	Ongoing
	Won
	Lost
)

func (state BoardState) String() string {
	switch state {
	case Ready:
		return "ready"
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprint(int(state))
	}
}

// IsOver reports whether the game reached a terminal state
func (state BoardState) IsOver() bool {
	return state == Won || state == Lost
}

const (
	// Upper bound on whole-grid regenerations while looking for a safe first cell
	MaxGenerationAttempts = 10000

	MinWidth, MaxWidth   = 10, 50
	MinHeight, MaxHeight = 5, 30
	MaxDifficulty        = 0.9
)
