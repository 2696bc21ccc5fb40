package agents

import (
	"fmt"
	"sort"

	"github.com/talgya/citychase/internal/world"
)

// Path is a least-turns route. Moves run from the source to the target;
// Turns counts every move plus every rest the route needs on the way.
type Path struct {
	Moves []Move `json:"moves"`
	Turns int    `json:"turns"`
}

// Cost returns the total stamina spent along the path.
func (p Path) Cost() int {
	total := 0
	for _, mv := range p.Moves {
		total += mv.StaminaCost
	}
	return total
}

// routeLabel is the best known way of reaching a city.
type routeLabel struct {
	pred      world.CityID
	cost      int // length of the road from pred
	remaining int // stamina left on arrival
	turns     int // -1 while unreached
}

// better reports whether arriving with (turns, remaining) beats l.
func (l routeLabel) better(turns, remaining int) bool {
	if l.turns < 0 || turns < l.turns {
		return true
	}
	return turns == l.turns && remaining > l.remaining
}

// LeastTurnsPath finds the route from one city to another that takes the
// fewest turns for an agent that starts with stamina and rests back to
// maxStamina whenever the next road costs more than it has left. A rest
// costs one turn, as does each road. Among routes with equal turns the one
// arriving with the most stamina wins. Roads longer than maxStamina can
// never be taken.
//
// Each city keeps a single label: fewer turns always dominates, since
// resting one turn restores anything a slower arrival could have.
func LeastTurnsPath(m *world.Map, from, to world.CityID, stamina, maxStamina int) (Path, error) {
	if !m.Valid(from) {
		return Path{}, fmt.Errorf("%w: %d", world.ErrNoSuchCity, from)
	}
	if !m.Valid(to) {
		return Path{}, fmt.Errorf("%w: %d", world.ErrNoSuchCity, to)
	}
	if from == to {
		return Path{}, nil
	}
	stamina = min(stamina, maxStamina)

	labels := make([]routeLabel, m.NumCities())
	for i := range labels {
		labels[i] = routeLabel{pred: -1, turns: -1}
	}
	labels[from] = routeLabel{pred: -1, remaining: stamina, turns: 0}

	queue := []world.CityID{from}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		here := labels[curr]

		// Cheaper roads first; equal lengths keep ascending destination order.
		roads := m.RoadsFrom(curr)
		sort.SliceStable(roads, func(i, j int) bool { return roads[i].Length < roads[j].Length })

		for _, r := range roads {
			if r.Length > maxStamina {
				continue
			}
			turns, remaining := here.turns+1, here.remaining-r.Length
			if remaining < 0 {
				// Rest here first.
				turns, remaining = here.turns+2, maxStamina-r.Length
			}
			if labels[r.To].better(turns, remaining) {
				labels[r.To] = routeLabel{pred: curr, cost: r.Length, remaining: remaining, turns: turns}
				queue = append(queue, r.To)
			}
		}
	}

	if labels[to].turns < 0 {
		return Path{}, fmt.Errorf("%w: %d to %d", ErrNoPath, from, to)
	}

	var moves []Move
	for c := to; c != from; c = labels[c].pred {
		moves = append(moves, Move{To: c, StaminaCost: labels[c].cost})
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return Path{Moves: moves, Turns: labels[to].turns}, nil
}
