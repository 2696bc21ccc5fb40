// Package agents provides the agent model and its move decisions: the four
// movement strategies, the depth-first exploration tour and the least-turns
// route followed after a tip-off.
package agents

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/talgya/citychase/internal/world"
)

// Move is a candidate or committed step. A move whose destination is the
// agent's own city is a rest.
type Move struct {
	To          world.CityID `json:"to"`
	StaminaCost int          `json:"stamina_cost"`
}

// Strategy determines how an agent picks its next city.
type Strategy uint8

const (
	Stationary           Strategy = iota // Never moves
	Random                               // Uniform over affordable roads
	CheapestLeastVisited                 // Least visited, then cheapest, then lowest id
	DepthFirst                           // Replays a depth-first tour of the map
)

var strategyNames = map[Strategy]string{
	Stationary:           "stationary",
	Random:               "random",
	CheapestLeastVisited: "clv",
	DepthFirst:           "dfs",
}

// String returns the short name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// ParseStrategy accepts the short names plus a few long aliases.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stationary", "still":
		return Stationary, nil
	case "random":
		return Random, nil
	case "clv", "cheapest-least-visited", "cheapest_least_visited":
		return CheapestLeastVisited, nil
	case "dfs", "depth-first", "depth_first":
		return DepthFirst, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Config describes a new agent.
type Config struct {
	Name       string
	Start      world.CityID
	MaxStamina int
	Strategy   Strategy
	Rand       *rand.Rand // Required by Random, ignored otherwise
}

// Agent is one mobile entity on the map.
type Agent struct {
	name       string
	start      world.CityID
	location   world.CityID
	maxStamina int
	stamina    int
	strategy   Strategy

	m   *world.Map // Shared, never mutated here
	rng *rand.Rand

	visits []int // Times each city was entered, start included

	// Depth-first tour and the index of the next move to replay.
	tour    []Move
	tourPos int

	// Least-turns route to the last tip-off, stored target first;
	// overridePos walks it back to front and is -1 once drained.
	override    []Move
	overridePos int

	tipped    world.CityID
	hasTipped bool
}
