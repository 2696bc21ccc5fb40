// Move decisions. NextMove never changes where the agent is or how much
// stamina it has; it only refreshes the cached tour and route buffers.
package agents

import (
	"errors"
	"log/slog"

	"github.com/talgya/citychase/internal/world"
)

// NextMove returns the agent's next move without carrying it out.
//
// A pending tip-off replaces the route buffer with a least-turns path to the
// target. While that route has moves left it takes priority over the
// strategy; afterwards the strategy resumes, with a depth-first tour rebuilt
// from wherever the route ended.
func (a *Agent) NextMove() Move {
	if a.hasTipped {
		a.planRoute(a.tipped)
	}

	if a.overridePos >= 0 {
		next := a.override[a.overridePos]
		if next.StaminaCost > a.stamina {
			return a.stay()
		}
		a.visits[next.To]++
		a.overridePos--
		return next
	}

	switch a.strategy {
	case Random:
		return a.decideRandom()
	case CheapestLeastVisited:
		return a.decideCheapestLeastVisited()
	case DepthFirst:
		return a.decideDepthFirst()
	default:
		return a.stay()
	}
}

func (a *Agent) stay() Move {
	return Move{To: a.location, StaminaCost: 0}
}

// planRoute loads the least-turns route to target into the override buffer.
func (a *Agent) planRoute(target world.CityID) {
	path, err := LeastTurnsPath(a.m, a.location, target, a.stamina, a.maxStamina)
	if err != nil {
		// Unreachable targets are dropped; the strategy carries on.
		if errors.Is(err, ErrNoPath) {
			slog.Debug("tip-off target unreachable", "agent", a.name, "from", a.location, "target", target)
		}
		a.override = a.override[:0]
		a.overridePos = -1
		a.hasTipped = false
		return
	}

	// Stored target first so replay pops from the back.
	a.override = a.override[:0]
	for i := len(path.Moves) - 1; i >= 0; i-- {
		a.override = append(a.override, path.Moves[i])
	}
	a.overridePos = len(a.override) - 1

	// Force a fresh tour from wherever the route ends.
	a.tourPos = len(a.tour)

	slog.Debug("tip-off route planned",
		"agent", a.name,
		"from", a.location,
		"target", target,
		"moves", len(path.Moves),
		"turns", path.Turns,
	)
}

// affordable returns the roads from the current city the agent can pay for
// right now, ascending by destination.
func (a *Agent) affordable() []world.Road {
	roads := a.m.RoadsFrom(a.location)
	legal := roads[:0]
	for _, r := range roads {
		if r.Length <= a.stamina {
			legal = append(legal, r)
		}
	}
	return legal
}

func (a *Agent) decideRandom() Move {
	legal := a.affordable()
	if len(legal) == 0 {
		return a.stay()
	}
	r := legal[a.rng.Intn(len(legal))]
	return Move{To: r.To, StaminaCost: r.Length}
}

// decideCheapestLeastVisited prefers the least visited neighbour, then the
// cheaper road. Candidates arrive in ascending id order and only a strict
// improvement replaces the best, so remaining ties go to the lowest id.
func (a *Agent) decideCheapestLeastVisited() Move {
	legal := a.affordable()
	if len(legal) == 0 {
		return a.stay()
	}

	best := legal[0]
	for _, r := range legal[1:] {
		rv, bv := a.visits[r.To], a.visits[best.To]
		if rv < bv || (rv == bv && r.Length < best.Length) {
			best = r
		}
	}
	return Move{To: best.To, StaminaCost: best.Length}
}

// decideDepthFirst replays the tour one move at a time, rebuilding it from
// the current city once it runs out. A move the agent cannot pay for yet is
// retried on a later turn.
func (a *Agent) decideDepthFirst() Move {
	if a.tourPos >= len(a.tour) {
		a.tour = appendTour(a.tour[:0], a.m, a.location, a.maxStamina)
		a.tourPos = 0
		slog.Debug("exploration tour rebuilt", "agent", a.name, "from", a.location, "moves", len(a.tour))
	}
	if len(a.tour) == 0 {
		return a.stay()
	}

	next := a.tour[a.tourPos]
	if next.StaminaCost > a.stamina {
		return a.stay()
	}
	a.tourPos++
	return next
}
