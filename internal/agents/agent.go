package agents

import (
	"fmt"
	"log/slog"

	"github.com/talgya/citychase/internal/world"
)

// New creates an agent standing on cfg.Start. The map is shared with the
// caller and must outlive the agent.
func New(cfg Config, m *world.Map) (*Agent, error) {
	if m == nil {
		return nil, ErrNilMap
	}
	if !m.Valid(cfg.Start) {
		return nil, fmt.Errorf("%w: %d (map has %d cities)", ErrInvalidStart, cfg.Start, m.NumCities())
	}
	if cfg.MaxStamina < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStamina, cfg.MaxStamina)
	}
	if !cfg.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(cfg.Strategy))
	}
	if cfg.Strategy == Random && cfg.Rand == nil {
		return nil, ErrNilRand
	}

	a := &Agent{
		name:        cfg.Name,
		start:       cfg.Start,
		location:    cfg.Start,
		maxStamina:  cfg.MaxStamina,
		stamina:     cfg.MaxStamina,
		strategy:    cfg.Strategy,
		m:           m,
		rng:         cfg.Rand,
		visits:      make([]int, m.NumCities()),
		overridePos: -1,
	}
	a.visits[cfg.Start]++
	return a, nil
}

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Location returns the city the agent is in.
func (a *Agent) Location() world.CityID { return a.location }

// Start returns the city the agent started in.
func (a *Agent) Start() world.CityID { return a.start }

// Stamina returns the stamina currently available.
func (a *Agent) Stamina() int { return a.stamina }

// MaxStamina returns the stamina restored by resting.
func (a *Agent) MaxStamina() int { return a.maxStamina }

// Strategy returns the agent's movement strategy.
func (a *Agent) Strategy() Strategy { return a.strategy }

// Visits returns how many times the agent has entered city.
func (a *Agent) Visits(city world.CityID) int {
	if !a.m.Valid(city) {
		return 0
	}
	return a.visits[city]
}

// Tipped returns the pending tip-off target, if any.
func (a *Agent) Tipped() (world.CityID, bool) {
	return a.tipped, a.hasTipped
}

// Following reports whether the agent is still replaying a tip-off route.
func (a *Agent) Following() bool {
	return a.overridePos >= 0
}

// TipOff tells the agent where its target was last seen. The advisory is
// consumed by the next ApplyMove.
func (a *Agent) TipOff(target world.CityID) error {
	if !a.m.Valid(target) {
		return fmt.Errorf("tip-off: %w: %d", world.ErrNoSuchCity, target)
	}
	a.tipped = target
	a.hasTipped = true
	return nil
}

// ApplyMove commits a move returned by NextMove. Resting restores full
// stamina; travelling spends the road length.
func (a *Agent) ApplyMove(mv Move) error {
	if mv.To == a.location {
		a.stamina = a.maxStamina
	} else {
		length, ok := a.m.ContainsRoad(a.location, mv.To)
		if !ok {
			return fmt.Errorf("%w: no road from %d to %d", ErrIllegalMove, a.location, mv.To)
		}
		if mv.StaminaCost != length {
			return fmt.Errorf("%w: road %d-%d costs %d, not %d", ErrIllegalMove, a.location, mv.To, length, mv.StaminaCost)
		}
		if mv.StaminaCost > a.stamina {
			return fmt.Errorf("%w: needs %d stamina, has %d", ErrIllegalMove, mv.StaminaCost, a.stamina)
		}
		a.stamina -= mv.StaminaCost
	}

	a.location = mv.To
	a.visits[mv.To]++
	a.hasTipped = false
	return nil
}

// String returns a summary of the agent.
func (a *Agent) String() string {
	return fmt.Sprintf("Agent(%s at %d, stamina=%d/%d, %s)", a.name, a.location, a.stamina, a.maxStamina, a.strategy)
}

// LogValue implements slog.LogValuer.
func (a *Agent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", a.name),
		slog.Int("location", int(a.location)),
		slog.Int("stamina", a.stamina),
		slog.String("strategy", a.strategy.String()),
	)
}
