package game

import "errors"

var (
	ErrInvalidDimensions   = errors.New("grid dimensions must be positive")
	ErrInvalidDifficulty   = errors.New("difficulty must be within (0, 1)")
	ErrEmptyPalette        = errors.New("palette has no colours")
	ErrSafeCellOutOfBounds = errors.New("safe cell is outside the grid")
	ErrInfeasible          = errors.New("mine count leaves no safe cell")
	ErrGenerationExhausted = errors.New("no grid with a safe first cell was generated")

	ErrInvalidSnapshot = errors.New("invalid grid snapshot")
	ErrInvalidConfig   = errors.New("invalid game config")

	ErrSessionClosed = errors.New("session is closed")
	ErrNoMoves       = errors.New("director has no move to make")
)
