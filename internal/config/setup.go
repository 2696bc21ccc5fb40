package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/talgya/citychase/internal/agents"
	"github.com/talgya/citychase/internal/engine"
	"github.com/talgya/citychase/internal/entropy"
	"github.com/talgya/citychase/internal/world"
)

// ErrNoStore is returned when a scenario wants a stored map but no database
// was given.
var ErrNoStore = errors.New("scenario uses a stored map but no database is open")

// MapStore loads maps saved by name.
type MapStore interface {
	LoadMap(name string) (*world.Map, error)
}

// OpenMap reads, loads or generates the scenario's map. The layout is only
// returned for generated maps. A generated map without its own seed derives
// one from the run seed.
func (s *Scenario) OpenMap(store MapStore, seed int64) (*world.Map, *world.Layout, error) {
	switch {
	case s.Map.File != "":
		f, err := os.Open(s.MapPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open map: %w", err)
		}
		defer f.Close()
		m, err := world.ReadMap(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.MapPath(), err)
		}
		return m, nil, nil

	case s.Map.Stored != "":
		if store == nil {
			return nil, nil, ErrNoStore
		}
		m, err := store.LoadMap(s.Map.Stored)
		return m, nil, err

	default:
		gen := *s.Map.Generate
		if gen.Seed == 0 {
			gen.Seed = entropy.Derive(seed, entropy.OffsetMap, 0)
		}
		return world.Generate(gen)
	}
}

// Chase builds the agents and the game on m.
func (s *Scenario) Chase(m *world.Map, seed int64) (engine.ChaseConfig, error) {
	spawner := agents.NewSpawner(seed)
	slog.Debug("spawning agents", "seed", spawner.Seed(), "detectives", len(s.Detectives))

	thief, err := spawn(spawner, s.Thief, m)
	if err != nil {
		return engine.ChaseConfig{}, fmt.Errorf("thief: %w", err)
	}

	detectives := make([]*agents.Agent, 0, len(s.Detectives))
	for i, spec := range s.Detectives {
		d, err := spawn(spawner, spec, m)
		if err != nil {
			return engine.ChaseConfig{}, fmt.Errorf("detective %d: %w", i, err)
		}
		detectives = append(detectives, d)
	}

	informants := make([]world.CityID, 0, len(s.Informants))
	for _, ref := range s.Informants {
		c, err := ref.Resolve(m)
		if err != nil {
			return engine.ChaseConfig{}, fmt.Errorf("informant: %w", err)
		}
		informants = append(informants, c)
	}

	getaway, err := s.Getaway.Resolve(m)
	if err != nil {
		return engine.ChaseConfig{}, fmt.Errorf("getaway: %w", err)
	}

	return engine.ChaseConfig{
		Map:        m,
		Thief:      thief,
		Detectives: detectives,
		Informants: informants,
		Getaway:    getaway,
		MaxTurns:   s.MaxTurns,
	}, nil
}

func spawn(s *agents.Spawner, spec AgentSpec, m *world.Map) (*agents.Agent, error) {
	start := agents.AnyCity
	if spec.Start != nil {
		c, err := spec.Start.Resolve(m)
		if err != nil {
			return nil, err
		}
		start = c
	}
	strategy := agents.Stationary
	if spec.Strategy != nil {
		strategy = *spec.Strategy
	}
	return s.Spawn(agents.Config{
		Name:       spec.Name,
		Start:      start,
		MaxStamina: spec.Stamina,
		Strategy:   strategy,
	}, m)
}
