package grid

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunner_Runs_Until_Wall(t *testing.T) {
	req := require.New(t)
	s := State{
		Width:     5,
		Height:    1,
		Cells:     []Point{{0, 0}},
		Direction: Right,
		Pending:   Right,
		Food:      NoFood,
	}
	engine, err := NewEngineFromState(s, newRand())
	req.NoError(err)

	var mu sync.Mutex
	var ticks []Tick
	runner := NewRunner(engine, func(tick Tick) {
		mu.Lock()
		ticks = append(ticks, tick)
		mu.Unlock()
	})
	runner.Start()

	select {
	case <-runner.Done():
	case <-time.After(3 * time.Second):
		req.Fail("runner never finished")
	}

	mu.Lock()
	defer mu.Unlock()
	// Four moves to reach x=4, the fifth hits the wall.
	req.Len(ticks, 5)
	req.True(ticks[4].Outcome.Eliminated)
	req.Equal(Point{4, 0}, ticks[4].State.Head())
}

func TestRunner_Speeds_Up_After_Level_Change(t *testing.T) {
	req := require.New(t)
	s := State{
		Width:     30,
		Height:    1,
		Cells:     []Point{{0, 0}},
		Direction: Right,
		Pending:   Right,
		Score:     40,
		Food:      Point{1, 0},
	}
	engine, err := NewEngineFromState(s, newRand())
	req.NoError(err)
	req.Equal(200*time.Millisecond, engine.Interval())

	ate := make(chan struct{}, 1)
	runner := NewRunner(engine, func(tick Tick) {
		if tick.Outcome.Ate {
			select {
			case ate <- struct{}{}:
			default:
			}
		}
	})
	runner.Start()
	defer runner.Stop()

	select {
	case <-ate:
	case <-time.After(time.Second):
		req.Fail("food was not eaten")
	}

	req.Equal(190*time.Millisecond, runner.Interval())
	req.Equal(50, runner.BestScore())
	req.Equal(2, runner.State().SpeedLevel)
}

func TestRunner_Pause_Skips_Ticks(t *testing.T) {
	req := require.New(t)
	engine := NewEngine(DefaultWidth, DefaultHeight, newRand())
	runner := NewRunner(engine, nil)

	req.True(runner.TogglePause())
	runner.Start()
	defer runner.Stop()

	time.Sleep(450 * time.Millisecond)
	req.Equal([]Point{{10, 10}}, runner.State().Cells)

	req.False(runner.TogglePause())
}

func TestRunner_Stop_Closes_Done(t *testing.T) {
	req := require.New(t)
	runner := NewRunner(NewEngine(DefaultWidth, DefaultHeight, newRand()), nil)
	runner.Start()

	runner.Stop()
	runner.Stop()

	select {
	case <-runner.Done():
	default:
		req.Fail("done not closed")
	}
}
