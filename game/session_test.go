package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, config GameConfig) *Session {
	t.Helper()
	session, err := NewSession(config)
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session
}

func snapshotConfig(palette Palette, mines, visibility string) GameConfig {
	config := NewGameConfig()
	config.WaveDelay = 0
	config.Snapshot = &GridSnapshot{Palette: palette, Mines: mines, Visibility: visibility}
	config.LoadSnapshotFresh = visibility == ""
	return config
}

func TestNewSessionInvalidConfig(t *testing.T) {
	config := NewGameConfig()
	config.Width = 1

	session, err := NewSession(config)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSessionLazyGrid(t *testing.T) {
	ctx := context.Background()
	config := NewGameConfig()
	config.WaveDelay = 0
	config.Seed = 99
	session := newTestSession(t, config)

	assert.Equal(t, Ready, session.State())
	assert.Nil(t, session.Snapshot())
	assert.Equal(t, uint64(99), session.Seed())

	// Out of bounds actions leave the game untouched
	hitMine, err := session.Discover(ctx, -1, 3, nil)
	require.NoError(t, err)
	assert.False(t, hitMine)
	require.NoError(t, session.Flag(ctx, 30, 0, 1))
	assert.Equal(t, Ready, session.State())
	assert.Nil(t, session.Snapshot())

	hitMine, err = session.Discover(ctx, 12, 7, nil)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, Ongoing, session.State())

	session.View(func(grid *Grid) {
		require.NotNil(t, grid)
		assert.Equal(t, 30, grid.Width())
		assert.Equal(t, 20, grid.Height())
		assert.Equal(t, 60, grid.NumMines())
		assert.True(t, grid.CellAt(12, 7).IsRevealed())
	})
}

func TestSessionFlagFirst(t *testing.T) {
	ctx := context.Background()
	config := NewGameConfig()
	config.WaveDelay = 0
	session := newTestSession(t, config)

	require.NoError(t, session.Flag(ctx, 5, 5, 1))
	assert.Equal(t, Ongoing, session.State())

	session.View(func(grid *Grid) {
		cell := grid.CellAt(5, 5)
		assert.False(t, cell.IsMine())
		assert.Equal(t, Flagged(0), cell.Visibility())
	})
}

func TestSessionDeterministic(t *testing.T) {
	ctx := context.Background()
	config := NewGameConfig()
	config.WaveDelay = 0
	config.Seed = 1234

	var snapshots []*GridSnapshot
	for i := 0; i < 2; i++ {
		session := newTestSession(t, config)
		_, err := session.Discover(ctx, 3, 3, nil)
		require.NoError(t, err)
		snapshots = append(snapshots, session.Snapshot())
	}
	assert.Equal(t, snapshots[0], snapshots[1])
}

func TestSessionLose(t *testing.T) {
	ctx := context.Background()
	config := NewGameConfig()
	config.WaveDelay = 0
	config.Seed = 7
	session := newTestSession(t, config)

	_, err := session.Discover(ctx, 0, 0, nil)
	require.NoError(t, err)

	var mine Point
	session.View(func(grid *Grid) {
		for _, cell := range grid.Cells() {
			if cell.IsMine() {
				mine = cell.Point()
				return
			}
		}
	})

	hitMine, err := session.Discover(ctx, mine.X, mine.Y, nil)
	require.NoError(t, err)
	assert.True(t, hitMine)
	assert.Equal(t, Lost, session.State())

	session.View(func(grid *Grid) {
		for _, cell := range grid.Cells() {
			if cell.IsMine() {
				assert.True(t, cell.IsRevealed(), "%s still hidden", cell)
			}
		}
	})

	// The game is over: nothing changes any more
	before := session.Snapshot()
	hitMine, err = session.Discover(ctx, 29, 19, nil)
	require.NoError(t, err)
	assert.False(t, hitMine)
	require.NoError(t, session.Flag(ctx, 29, 19, 1))
	require.NoError(t, session.FlagWith(ctx, 29, 19, Red))
	assert.Equal(t, before, session.Snapshot())
	assert.Equal(t, Lost, session.State())
}

func TestSessionWin(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, snapshotConfig(Palette{Red}, cornerMine, ""))

	hitMine, err := session.Discover(ctx, 0, 0, nil)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, Ongoing, session.State())

	require.NoError(t, session.FlagWith(ctx, 3, 3, Red))
	assert.Equal(t, Won, session.State())

	session.View(func(grid *Grid) {
		assert.Equal(t, Visible, grid.CellAt(3, 3).Visibility())
	})
}

func TestSessionWinByFlagCycle(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, snapshotConfig(Palette{Red, Blue}, "....\n...b", ""))

	_, err := session.Discover(ctx, 0, 0, nil)
	require.NoError(t, err)

	require.NoError(t, session.Flag(ctx, 3, 1, 1))
	assert.Equal(t, Ongoing, session.State())
	require.NoError(t, session.Flag(ctx, 3, 1, 1))
	assert.Equal(t, Won, session.State())
}

func TestSessionSecondary(t *testing.T) {
	ctx := context.Background()
	visibility := "a###\n#.##\n#b##"
	layout := "a...\n....\n.b.."

	// Flag cycling, backwards
	config := snapshotConfig(Palette{Red, Blue}, layout, visibility)
	config.Policy.FlagDirection = -1
	session := newTestSession(t, config)

	hitMine, err := session.Secondary(ctx, 3, 0, nil)
	require.NoError(t, err)
	assert.False(t, hitMine)
	session.View(func(grid *Grid) {
		assert.Equal(t, Flagged(1), grid.CellAt(3, 0).Visibility())
	})

	// Secondary on a visible cell does nothing without chording
	before := session.Snapshot()
	_, err = session.Secondary(ctx, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, before, session.Snapshot())

	// Chording
	config = snapshotConfig(Palette{Red, Blue}, layout, visibility)
	config.Policy.ChordOnSecondary = true
	session = newTestSession(t, config)

	hitMine, err = session.Secondary(ctx, 1, 1, nil)
	require.NoError(t, err)
	assert.False(t, hitMine)
	assert.Equal(t, Won, session.State())
}

func TestSessionWavesObservable(t *testing.T) {
	ctx := context.Background()
	config := snapshotConfig(Palette{Red}, cornerMine, "")
	config.WaveDelay = time.Millisecond
	session := newTestSession(t, config)

	total, numWaves := 0, 0
	_, err := session.Discover(ctx, 0, 0, func(wave []*Cell) {
		numWaves++
		total += len(wave)

		// Each wave is visible to readers as soon as it is emitted
		session.View(func(grid *Grid) {
			assert.Len(t, visibleCells(grid), total)
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Greater(t, numWaves, 1)
}

func TestSessionCancelledCascadeCompletes(t *testing.T) {
	config := snapshotConfig(Palette{Red}, cornerMine, "")
	config.WaveDelay = time.Hour
	session := newTestSession(t, config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	numWaves := 0
	_, err := session.Discover(ctx, 0, 0, func([]*Cell) {
		numWaves++
		cancel()
	})
	require.NoError(t, err)
	assert.Greater(t, numWaves, 1)

	session.View(func(grid *Grid) {
		assert.Len(t, visibleCells(grid), 15)
	})
}

func TestSessionSerializesActions(t *testing.T) {
	ctx := context.Background()
	config := NewGameConfig()
	config.WaveDelay = 0
	config.Seed = 5
	session := newTestSession(t, config)

	_, err := session.Discover(ctx, 0, 0, nil)
	require.NoError(t, err)

	var hidden []Point
	session.View(func(grid *Grid) {
		for _, cell := range grid.Cells() {
			if cell.IsHidden() && cell.IsMine() {
				hidden = append(hidden, cell.Point())
			}
		}
	})

	// Every mine is toggled twice, concurrently, while readers look on
	var wg sync.WaitGroup
	for _, pt := range hidden {
		for i := 0; i < 2; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, session.FlagWith(ctx, pt.X, pt.Y, Red))
			}()
			go func() {
				defer wg.Done()
				session.View(func(grid *Grid) {
					_ = IsGameWon(grid)
				})
			}()
		}
	}
	wg.Wait()

	session.View(func(grid *Grid) {
		for _, pt := range hidden {
			assert.Equal(t, Hidden, grid.CellAt(pt.X, pt.Y).Visibility())
		}
	})
	assert.Equal(t, Ongoing, session.State())
}

func TestSessionClosed(t *testing.T) {
	session, err := NewSession(snapshotConfig(Palette{Red}, cornerMine, ""))
	require.NoError(t, err)

	session.Close()
	session.Close()

	_, err = session.Discover(context.Background(), 0, 0, nil)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, session.Flag(context.Background(), 0, 0, 1), ErrSessionClosed)
	assert.Equal(t, Ready, session.State())
}

func TestSessionCancelledBeforeQueued(t *testing.T) {
	config := snapshotConfig(Palette{Red}, cornerMine, "")
	config.WaveDelay = time.Hour
	session := newTestSession(t, config)

	// Keep the session busy with a paced cascade
	started := make(chan struct{})
	release, cancelBusy := context.WithCancel(context.Background())
	go func() {
		_, _ = session.Discover(release, 0, 0, func([]*Cell) {
			select {
			case <-started:
			default:
				close(started)
			}
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := session.FlagWith(ctx, 3, 3, Red)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cancelBusy()
}
