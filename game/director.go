package game

import (
	"context"
	"errors"
)

// Director plays a session on its own
type Director interface {
	// Init binds the director to a session
	Init(*Session)

	// Act performs a single move, or returns ErrNoMoves when it has none
	Act(ctx context.Context) error

	// End releases the session
	End()
}

// RunDirector lets director play until the game is over, it runs out of
// moves, or maxMoves moves were made (0 for no limit). Returns the final state.
func RunDirector(ctx context.Context, session *Session, director Director, maxMoves int) (BoardState, error) {
	director.Init(session)
	defer director.End()

	log := session.log.WithField("director", true)

	for moves := 0; maxMoves == 0 || moves < maxMoves; moves++ {
		if state := session.State(); state.IsOver() {
			log.WithField("moves", moves).Debug("director finished")
			return state, nil
		}

		if err := director.Act(ctx); err != nil {
			if errors.Is(err, ErrNoMoves) {
				log.WithField("moves", moves).Debug("director is stuck")
				return session.State(), nil
			}
			return session.State(), err
		}
	}

	return session.State(), nil
}
