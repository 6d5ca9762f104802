package main

import (
	"slices"

	"github.com/scythe504/snake-arena/internal/grid"
)

// pilot picks the next direction: toward the food when that is safe,
// otherwise any safe turn, otherwise straight on. Food straight behind
// means turning rather than running away from it.
func pilot(s grid.State) grid.Direction {
	head := s.Head()
	var preferred []grid.Direction
	if s.Food != grid.NoFood {
		switch {
		case s.Food.X > head.X:
			preferred = append(preferred, grid.Right)
		case s.Food.X < head.X:
			preferred = append(preferred, grid.Left)
		}
		switch {
		case s.Food.Y > head.Y:
			preferred = append(preferred, grid.Down)
		case s.Food.Y < head.Y:
			preferred = append(preferred, grid.Up)
		}
	}
	if slices.Contains(preferred, s.Direction.Reverse()) {
		// food is behind: turn off the current axis first
		preferred = append(preferred, turns(s.Direction)...)
	}
	candidates := append(preferred, s.Direction, grid.Up, grid.Right, grid.Down, grid.Left)

	for _, d := range candidates {
		if d == s.Direction.Reverse() {
			continue
		}
		next := head.Add(d)
		if s.InBounds(next) && !s.Occupied(next) {
			return d
		}
	}
	return s.Direction
}

func turns(d grid.Direction) []grid.Direction {
	if d.X != 0 {
		return []grid.Direction{grid.Up, grid.Down}
	}
	return []grid.Direction{grid.Left, grid.Right}
}
