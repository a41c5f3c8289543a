package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session owns the grid of one game. Mutating calls are executed one at a
// time by the session's goroutine, so a cascade always completes before the
// next action starts. Each wave of a cascade is committed under the write
// lock, which lets View and State observe the grid between waves.
type Session struct {
	id     uuid.UUID
	config GameConfig
	seed   uint64
	rand   *rand.Rand
	log    *logrus.Entry

	mu    sync.RWMutex
	grid  *Grid
	state BoardState

	actions   chan func()
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(config GameConfig) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	id := uuid.New()
	session := &Session{
		id:      id,
		config:  config,
		seed:    seed,
		rand:    rand.New(rand.NewPCG(seed, seed>>1^0x9e3779b97f4a7c15)),
		log:     Log.WithField("session", id.String()),
		state:   Ready,
		actions: make(chan func()),
		done:    make(chan struct{}),
	}

	session.log.WithFields(config.Fields()).WithField("seed", seed).Debug("session created")

	go session.run()
	return session, nil
}

func (session *Session) run() {
	for {
		select {
		case action := <-session.actions:
			action()
		case <-session.done:
			return
		}
	}
}

// submit queues an action and waits for it to finish. Once accepted, an
// action always runs to completion, even if ctx is cancelled meanwhile.
func (session *Session) submit(ctx context.Context, action func() error) error {
	var err error
	finished := make(chan struct{})

	queued := func() {
		defer close(finished)
		err = action()
	}

	select {
	case <-session.done:
		return ErrSessionClosed
	default:
	}

	select {
	case session.actions <- queued:
	case <-session.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished
	return err
}

// Close stops the session's queue. Pending and later calls fail with
// ErrSessionClosed.
func (session *Session) Close() {
	session.closeOnce.Do(func() {
		close(session.done)
		session.log.Debug("session closed")
	})
}

func (session *Session) ID() uuid.UUID {
	return session.id
}

func (session *Session) Config() GameConfig {
	return session.config
}

func (session *Session) Seed() uint64 {
	return session.seed
}

func (session *Session) State() BoardState {
	session.mu.RLock()
	defer session.mu.RUnlock()
	return session.state
}

// View runs fn with read access to the grid, which is nil until the first
// action. fn must not keep the grid nor call the session's mutating methods.
func (session *Session) View(fn func(grid *Grid)) {
	session.mu.RLock()
	defer session.mu.RUnlock()
	fn(session.grid)
}

// Snapshot describes the current grid, or returns nil before the first action
func (session *Session) Snapshot() *GridSnapshot {
	session.mu.RLock()
	defer session.mu.RUnlock()
	if session.grid == nil {
		return nil
	}
	return session.grid.Snapshot()
}

// Discover reveals (x, y), see DiscoverCell. onWave is called after each wave
// is committed and must not call mutating methods of the session. Returns
// whether a mine was hit.
func (session *Session) Discover(ctx context.Context, x, y int, onWave WaveFunc) (bool, error) {
	var hitMine bool
	err := session.submit(ctx, func() error {
		if ok, err := session.prepare(x, y); !ok || err != nil {
			return err
		}

		hitMine = session.discover(ctx, x, y, onWave)
		session.settle(hitMine)
		return nil
	})
	return hitMine, err
}

// Flag steps the flag of (x, y) in direction, see FlagCell
func (session *Session) Flag(ctx context.Context, x, y, direction int) error {
	return session.submit(ctx, func() error {
		if ok, err := session.prepare(x, y); !ok || err != nil {
			return err
		}

		session.mu.Lock()
		FlagCell(session.grid, x, y, direction)
		session.mu.Unlock()

		session.settle(false)
		return nil
	})
}

// FlagWith toggles a flag of the given colour on (x, y), see FlagOrToggleCell
func (session *Session) FlagWith(ctx context.Context, x, y int, color Color) error {
	return session.submit(ctx, func() error {
		if ok, err := session.prepare(x, y); !ok || err != nil {
			return err
		}

		session.mu.Lock()
		FlagOrToggleCell(session.grid, x, y, color)
		session.mu.Unlock()

		session.settle(false)
		return nil
	})
}

// Secondary performs the secondary action on (x, y) according to the
// session's InputPolicy: chording a visible cell, or cycling its flag.
// Returns whether a mine was hit.
func (session *Session) Secondary(ctx context.Context, x, y int, onWave WaveFunc) (bool, error) {
	var hitMine bool
	err := session.submit(ctx, func() error {
		if ok, err := session.prepare(x, y); !ok || err != nil {
			return err
		}

		policy := session.config.Policy
		if cell := session.grid.CellAt(x, y); policy.ChordOnSecondary && cell != nil && cell.IsRevealed() {
			hitMine = session.discover(ctx, x, y, onWave)
		} else {
			session.mu.Lock()
			FlagCell(session.grid, x, y, policy.FlagDirection)
			session.mu.Unlock()
		}

		session.settle(hitMine)
		return nil
	})
	return hitMine, err
}

// prepare creates the grid on the first in-bounds action, keeping (x, y)
// free of mines. Reports whether the action should proceed.
func (session *Session) prepare(x, y int) (bool, error) {
	if session.state.IsOver() {
		return false, nil
	}

	if session.grid != nil {
		return session.grid.InBounds(x, y), nil
	}

	if session.config.Snapshot == nil && (x < 0 || y < 0 || x >= session.config.Width || y >= session.config.Height) {
		return false, nil
	}

	grid, err := session.config.createGrid(x, y, session.rand)
	if err != nil {
		session.log.WithError(err).Error("unable to create grid")
		return false, err
	}

	session.mu.Lock()
	session.grid = grid
	session.state = Ongoing
	session.mu.Unlock()

	session.log.WithFields(logrus.Fields{
		"width":  grid.Width(),
		"height": grid.Height(),
		"mines":  grid.NumMines(),
		"first":  Point{x, y},
	}).Info("game started")

	return grid.InBounds(x, y), nil
}

func (session *Session) discover(ctx context.Context, x, y int, onWave WaveFunc) bool {
	delay := session.config.WaveDelay

	return session.grid.discover(x, y, func(cascade *Cascade) {
		pace := delay > 0
		for {
			session.mu.Lock()
			wave := cascade.Next()
			session.mu.Unlock()

			if wave == nil {
				return
			}
			if onWave != nil {
				onWave(wave)
			}

			// Once the caller gives up waiting, the rest of the cascade runs unpaced
			if pace && !cascade.Done() {
				pace = sleep(ctx, delay) == nil
			}
		}
	})
}

// settle moves the game to a terminal state after a mutation, disclosing the
// mines when it ends
func (session *Session) settle(hitMine bool) {
	session.mu.Lock()
	defer session.mu.Unlock()

	switch {
	case hitMine:
		session.state = Lost
	case IsGameWon(session.grid):
		session.state = Won
	default:
		return
	}

	RevealAllMines(session.grid)
	session.log.WithField("state", session.state).Info("game over")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
