// Package grid holds the deterministic snake rules every participant runs
// locally: steering, movement, collision, growth and speed.
package grid

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

const (
	DefaultWidth  = 20
	DefaultHeight = 20

	FoodPoints      = 10
	PointsPerLevel  = 50
	BaseInterval    = 200 * time.Millisecond
	IntervalStep    = 10 * time.Millisecond
	MinimumInterval = 50 * time.Millisecond

	// Rejection-sampling attempts before falling back to a free-cell scan.
	foodAttempts = 64
)

var ErrInvalidState = errors.New("invalid grid state")

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoFood marks a grid with no free cell left.
var NoFood = Point{X: -1, Y: -1}

func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

type Direction struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

func (d Direction) Reverse() Direction {
	return Direction{X: -d.X, Y: -d.Y}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("(%d,%d)", d.X, d.Y)
}

// State is one snake on one grid. Cells[0] is the head.
type State struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Cells      []Point   `json:"cells"`
	Direction  Direction `json:"direction"`
	Pending    Direction `json:"pendingDirection"`
	Food       Point     `json:"food"`
	Score      int       `json:"score"`
	SpeedLevel int       `json:"speedLevel"`
}

func (s State) Head() Point {
	return s.Cells[0]
}

func (s State) InBounds(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

func (s State) Occupied(p Point) bool {
	return slices.Contains(s.Cells, p)
}

// Validate checks the invariants Advance relies on.
func (s State) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidState, s.Width, s.Height)
	}
	if len(s.Cells) == 0 {
		return fmt.Errorf("%w: empty snake", ErrInvalidState)
	}
	seen := make(map[Point]struct{}, len(s.Cells))
	for _, c := range s.Cells {
		if !s.InBounds(c) {
			return fmt.Errorf("%w: cell %v out of bounds", ErrInvalidState, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: cell %v repeated", ErrInvalidState, c)
		}
		seen[c] = struct{}{}
	}
	if !s.Direction.Valid() || !s.Pending.Valid() {
		return fmt.Errorf("%w: direction %v pending %v", ErrInvalidState, s.Direction, s.Pending)
	}
	if s.Food != NoFood {
		if !s.InBounds(s.Food) {
			return fmt.Errorf("%w: food %v out of bounds", ErrInvalidState, s.Food)
		}
		if s.Occupied(s.Food) {
			return fmt.Errorf("%w: food %v under snake", ErrInvalidState, s.Food)
		}
	}
	if s.Score < 0 || s.Score%FoodPoints != 0 {
		return fmt.Errorf("%w: score %d", ErrInvalidState, s.Score)
	}
	if s.SpeedLevel != SpeedLevel(s.Score) {
		return fmt.Errorf("%w: speed level %d for score %d", ErrInvalidState, s.SpeedLevel, s.Score)
	}
	return nil
}

func (s State) clone() State {
	s.Cells = slices.Clone(s.Cells)
	return s
}

// SpeedLevel derives the level from a score.
func SpeedLevel(score int) int {
	return score/PointsPerLevel + 1
}

// Interval is the tick period at a speed level.
func Interval(level int) time.Duration {
	return max(MinimumInterval, BaseInterval-time.Duration(level-1)*IntervalStep)
}

// Outcome describes what one tick did.
type Outcome struct {
	Eliminated   bool `json:"eliminated"`
	Ate          bool `json:"ate"`
	SpeedChanged bool `json:"speedChanged"`
}

// Steer returns the pending direction after an input. Reversals of the
// committed direction are dropped.
func Steer(s State, d Direction) Direction {
	if !d.Valid() || d == s.Direction.Reverse() {
		return s.Pending
	}
	return d
}

// Advance runs one tick with the given pending direction. The input state is
// never mutated; on elimination the returned state differs from the input only
// in its committed direction.
func Advance(s State, pending Direction, rng *rand.Rand) (State, Outcome) {
	if !pending.Valid() || pending == s.Direction.Reverse() {
		pending = s.Direction
	}
	next := s.clone()
	next.Direction = pending
	next.Pending = pending

	head := next.Head().Add(next.Direction)
	if !next.InBounds(head) || next.Occupied(head) {
		return next, Outcome{Eliminated: true}
	}

	if head != next.Food {
		copy(next.Cells[1:], next.Cells[:len(next.Cells)-1])
		next.Cells[0] = head
		return next, Outcome{}
	}

	next.Cells = slices.Insert(next.Cells, 0, head)
	next.Score += FoodPoints
	level := SpeedLevel(next.Score)
	changed := level != next.SpeedLevel
	next.SpeedLevel = level
	next.Food = spawnFood(next, rng)

	return next, Outcome{Ate: true, SpeedChanged: changed}
}

// spawnFood draws uniformly among free cells.
func spawnFood(s State, rng *rand.Rand) Point {
	free := s.Width*s.Height - len(s.Cells)
	if free <= 0 {
		return NoFood
	}
	for range foodAttempts {
		p := Point{X: rng.IntN(s.Width), Y: rng.IntN(s.Height)}
		if !s.Occupied(p) {
			return p
		}
	}

	occupied := make(map[Point]struct{}, len(s.Cells))
	for _, c := range s.Cells {
		occupied[c] = struct{}{}
	}
	n := rng.IntN(free)
	for y := range s.Height {
		for x := range s.Width {
			p := Point{X: x, Y: y}
			if _, ok := occupied[p]; ok {
				continue
			}
			if n == 0 {
				return p
			}
			n--
		}
	}
	return NoFood
}

// NewState places a one-cell snake in the middle of the grid heading right.
func NewState(width, height int, rng *rand.Rand) State {
	s := State{
		Width:      width,
		Height:     height,
		Cells:      []Point{{X: width / 2, Y: height / 2}},
		Direction:  Right,
		Pending:    Right,
		SpeedLevel: 1,
	}
	s.Food = spawnFood(s, rng)
	return s
}

// Engine owns one evolving State. It is not safe for concurrent use; Runner
// serialises access.
type Engine struct {
	state State
	rng   *rand.Rand
}

func NewEngine(width, height int, rng *rand.Rand) *Engine {
	return &Engine{state: NewState(width, height, rng), rng: rng}
}

func NewEngineFromState(s State, rng *rand.Rand) (*Engine, error) {
	if s.SpeedLevel == 0 {
		s.SpeedLevel = SpeedLevel(s.Score)
	}
	if s.Pending == (Direction{}) {
		s.Pending = s.Direction
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Engine{state: s.clone(), rng: rng}, nil
}

func (e *Engine) State() State {
	return e.state.clone()
}

func (e *Engine) Steer(d Direction) {
	e.state.Pending = Steer(e.state, d)
}

func (e *Engine) Advance() Outcome {
	next, outcome := Advance(e.state, e.state.Pending, e.rng)
	e.state = next
	return outcome
}

func (e *Engine) Interval() time.Duration {
	return Interval(e.state.SpeedLevel)
}
