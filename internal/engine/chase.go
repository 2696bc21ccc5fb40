// Chase ties a thief and its detectives to the turn loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/citychase/internal/agents"
	"github.com/talgya/citychase/internal/world"
)

var (
	ErrNoThief          = errors.New("chase needs a thief")
	ErrInvalidGetaway   = errors.New("getaway city not on the map")
	ErrInvalidInformant = errors.New("informant city not on the map")
)

// Outcome is how a chase ended.
type Outcome uint8

const (
	OutcomeRunning Outcome = iota
	OutcomeCaught          // A detective reached the thief
	OutcomeEscaped         // The thief reached the getaway city
	OutcomeTimeUp          // Out of turns
)

// String returns a human-readable name for an outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeCaught:
		return "caught"
	case OutcomeEscaped:
		return "escaped"
	case OutcomeTimeUp:
		return "time-up"
	default:
		return "unknown"
	}
}

// EventKind labels an event in the run log.
type EventKind string

const (
	EventMove    EventKind = "move"
	EventRest    EventKind = "rest"
	EventTipOff  EventKind = "tip-off"
	EventCaught  EventKind = "caught"
	EventEscaped EventKind = "escaped"
	EventTimeout EventKind = "timeout"
)

// Event is one line of the run log.
type Event struct {
	Turn  uint64       `json:"turn" db:"turn"`
	Agent string       `json:"agent" db:"agent"`
	From  world.CityID `json:"from" db:"from_city"`
	To    world.CityID `json:"to" db:"to_city"`
	Cost  int          `json:"cost" db:"cost"`
	Kind  EventKind    `json:"kind" db:"kind"`
}

// Result summarises a finished chase.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Turns   uint64  `json:"turns"`
	Catcher string  `json:"catcher,omitempty"`
	Events  []Event `json:"events"`
}

// ChaseConfig describes one game.
type ChaseConfig struct {
	Map        *world.Map
	Thief      *agents.Agent
	Detectives []*agents.Agent
	Informants []world.CityID // Detectives standing here learn where the thief is
	Getaway    world.CityID
	MaxTurns   uint64        // 0 = play until caught or escaped
	Interval   time.Duration // Pause between turns
}

// Chase holds the state of one game.
type Chase struct {
	m          *world.Map
	thief      *agents.Agent
	detectives []*agents.Agent
	informants map[world.CityID]bool
	getaway    world.CityID
	maxTurns   uint64
	interval   time.Duration

	turn    uint64
	outcome Outcome
	catcher string
	events  []Event
	err     error
}

// NewChase validates cfg and sets up a game.
func NewChase(cfg ChaseConfig) (*Chase, error) {
	if cfg.Map == nil {
		return nil, agents.ErrNilMap
	}
	if cfg.Thief == nil {
		return nil, ErrNoThief
	}
	if !cfg.Map.Valid(cfg.Getaway) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGetaway, cfg.Getaway)
	}
	informants := make(map[world.CityID]bool, len(cfg.Informants))
	for _, c := range cfg.Informants {
		if !cfg.Map.Valid(c) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidInformant, c)
		}
		informants[c] = true
	}

	return &Chase{
		m:          cfg.Map,
		thief:      cfg.Thief,
		detectives: cfg.Detectives,
		informants: informants,
		getaway:    cfg.Getaway,
		maxTurns:   cfg.MaxTurns,
		interval:   cfg.Interval,
	}, nil
}

// Run plays the chase to its end.
func (c *Chase) Run(ctx context.Context) (Result, error) {
	slog.Debug("chase started",
		"thief", c.thief,
		"detectives", len(c.detectives),
		"informants", len(c.informants),
		"getaway", c.getaway,
	)

	// Already over before the first turn.
	if c.checkCaught(0) || c.checkEscaped(0) {
		return c.Result(), nil
	}

	eng := NewEngine(c.maxTurns)
	eng.Interval = c.interval
	eng.OnTurn = c.Step
	if err := eng.Run(ctx); err != nil {
		return c.Result(), err
	}
	if c.err != nil {
		return c.Result(), c.err
	}

	if c.outcome == OutcomeRunning && c.maxTurns > 0 && c.turn >= c.maxTurns {
		c.outcome = OutcomeTimeUp
		loc := c.thief.Location()
		c.record(Event{Turn: c.turn, Agent: c.thief.Name(), From: loc, To: loc, Kind: EventTimeout})
	}
	return c.Result(), nil
}

// Step plays one turn and reports whether the chase goes on.
func (c *Chase) Step(turn uint64) bool {
	c.turn = turn
	thiefAt := c.thief.Location()

	for _, d := range c.detectives {
		if !c.informants[d.Location()] || d.Following() {
			continue
		}
		if err := d.TipOff(thiefAt); err != nil {
			c.err = err
			return false
		}
		c.record(Event{Turn: turn, Agent: d.Name(), From: d.Location(), To: thiefAt, Kind: EventTipOff})
	}

	if !c.advance(turn, c.thief) {
		return false
	}
	if c.checkCaught(turn) || c.checkEscaped(turn) {
		return false
	}

	for _, d := range c.detectives {
		if !c.advance(turn, d) {
			return false
		}
	}
	return !c.checkCaught(turn)
}

// advance asks a for its move and commits it.
func (c *Chase) advance(turn uint64, a *agents.Agent) bool {
	from := a.Location()
	mv := a.NextMove()
	if err := a.ApplyMove(mv); err != nil {
		c.err = fmt.Errorf("turn %d, %s: %w", turn, a.Name(), err)
		return false
	}
	kind := EventMove
	if mv.To == from {
		kind = EventRest
	}
	c.record(Event{Turn: turn, Agent: a.Name(), From: from, To: mv.To, Cost: mv.StaminaCost, Kind: kind})
	return true
}

// checkCaught ends the game when a detective shares the thief's city. The
// first detective in order gets the credit.
func (c *Chase) checkCaught(turn uint64) bool {
	at := c.thief.Location()
	for _, d := range c.detectives {
		if d.Location() == at {
			c.outcome = OutcomeCaught
			c.catcher = d.Name()
			c.record(Event{Turn: turn, Agent: d.Name(), From: at, To: at, Kind: EventCaught})
			return true
		}
	}
	return false
}

func (c *Chase) checkEscaped(turn uint64) bool {
	at := c.thief.Location()
	if at != c.getaway {
		return false
	}
	c.outcome = OutcomeEscaped
	c.record(Event{Turn: turn, Agent: c.thief.Name(), From: at, To: at, Kind: EventEscaped})
	return true
}

func (c *Chase) record(e Event) {
	slog.Debug("chase event",
		"turn", e.Turn,
		"kind", e.Kind,
		"agent", e.Agent,
		"from", c.m.Name(e.From),
		"to", c.m.Name(e.To),
		"cost", e.Cost,
	)
	c.events = append(c.events, e)
}

// Result returns the outcome so far.
func (c *Chase) Result() Result {
	return Result{
		Outcome: c.outcome,
		Turns:   c.turn,
		Catcher: c.catcher,
		Events:  c.events,
	}
}
