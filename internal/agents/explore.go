package agents

import "github.com/talgya/citychase/internal/world"

// NoLimit disables the road length cap of ExploreTour.
const NoLimit = -1

// ExploreTour returns a depth-first walk from the given city that enters
// every city reachable from it and comes back. Each tree road appears twice,
// once going out and once backtracking, at the same cost. Neighbours are
// tried in ascending id order. Roads longer than limit are treated as
// missing unless limit is NoLimit.
func ExploreTour(m *world.Map, from world.CityID, limit int) []Move {
	if !m.Valid(from) {
		return nil
	}
	return appendTour(nil, m, from, limit)
}

type tourFrame struct {
	roads []world.Road
	next  int
	via   world.Road // road used to enter this city; zero for the root
}

func appendTour(tour []Move, m *world.Map, from world.CityID, limit int) []Move {
	visited := make([]bool, m.NumCities())
	visited[from] = true
	stack := []tourFrame{{roads: m.RoadsFrom(from)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.roads) {
			r := top.roads[top.next]
			top.next++
			if visited[r.To] || (limit != NoLimit && r.Length > limit) {
				continue
			}
			visited[r.To] = true
			tour = append(tour, Move{To: r.To, StaminaCost: r.Length})
			stack = append(stack, tourFrame{roads: m.RoadsFrom(r.To), via: r})
			continue
		}

		via := top.via
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			tour = append(tour, Move{To: via.From, StaminaCost: via.Length})
		}
	}
	return tour
}
