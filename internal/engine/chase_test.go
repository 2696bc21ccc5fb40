package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citychase/internal/agents"
	"github.com/talgya/citychase/internal/world"
)

// lineMap is 0-1-2-3 with unit roads.
func lineMap(t *testing.T) *world.Map {
	t.Helper()
	m, err := world.NewMap(4)
	require.NoError(t, err)
	for c := 1; c < 4; c++ {
		_, err := m.InsertRoad(world.CityID(c-1), world.CityID(c), 1)
		require.NoError(t, err)
	}
	return m
}

func agent(t *testing.T, m *world.Map, name string, start world.CityID, strategy agents.Strategy) *agents.Agent {
	t.Helper()
	a, err := agents.New(agents.Config{Name: name, Start: start, MaxStamina: 5, Strategy: strategy}, m)
	require.NoError(t, err)
	return a
}

func TestChase_ThiefEscapes(t *testing.T) {
	m := lineMap(t)
	c, err := NewChase(ChaseConfig{
		Map:      m,
		Thief:    agent(t, m, "Raffles", 0, agents.DepthFirst),
		Getaway:  2,
		MaxTurns: 10,
	})
	require.NoError(t, err)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeEscaped, res.Outcome)
	assert.Equal(t, uint64(2), res.Turns)

	want := []Event{
		{Turn: 1, Agent: "Raffles", From: 0, To: 1, Cost: 1, Kind: EventMove},
		{Turn: 2, Agent: "Raffles", From: 1, To: 2, Cost: 1, Kind: EventMove},
		{Turn: 2, Agent: "Raffles", From: 2, To: 2, Kind: EventEscaped},
	}
	if diff := cmp.Diff(want, res.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestChase_InformantLeadsToArrest(t *testing.T) {
	m := lineMap(t)
	c, err := NewChase(ChaseConfig{
		Map:        m,
		Thief:      agent(t, m, "Raffles", 3, agents.Stationary),
		Detectives: []*agents.Agent{agent(t, m, "Lestrade", 0, agents.Stationary)},
		Informants: []world.CityID{0},
		Getaway:    0,
		MaxTurns:   10,
	})
	require.NoError(t, err)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCaught, res.Outcome)
	assert.Equal(t, "Lestrade", res.Catcher)
	assert.Equal(t, uint64(3), res.Turns)

	want := []Event{
		{Turn: 1, Agent: "Lestrade", From: 0, To: 3, Kind: EventTipOff},
		{Turn: 1, Agent: "Raffles", From: 3, To: 3, Kind: EventRest},
		{Turn: 1, Agent: "Lestrade", From: 0, To: 1, Cost: 1, Kind: EventMove},
		{Turn: 2, Agent: "Raffles", From: 3, To: 3, Kind: EventRest},
		{Turn: 2, Agent: "Lestrade", From: 1, To: 2, Cost: 1, Kind: EventMove},
		{Turn: 3, Agent: "Raffles", From: 3, To: 3, Kind: EventRest},
		{Turn: 3, Agent: "Lestrade", From: 2, To: 3, Cost: 1, Kind: EventMove},
		{Turn: 3, Agent: "Lestrade", From: 3, To: 3, Kind: EventCaught},
	}
	if diff := cmp.Diff(want, res.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestChase_ThiefWalksIntoDetective(t *testing.T) {
	m := lineMap(t)
	c, err := NewChase(ChaseConfig{
		Map:        m,
		Thief:      agent(t, m, "Raffles", 0, agents.DepthFirst),
		Detectives: []*agents.Agent{agent(t, m, "Lestrade", 1, agents.Stationary)},
		Getaway:    3,
	})
	require.NoError(t, err)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCaught, res.Outcome)
	assert.Equal(t, uint64(1), res.Turns)
	assert.Len(t, res.Events, 2, "thief move then arrest; detective never moves")
}

func TestChase_TimeUp(t *testing.T) {
	m := lineMap(t)
	c, err := NewChase(ChaseConfig{
		Map:        m,
		Thief:      agent(t, m, "Raffles", 3, agents.Stationary),
		Detectives: []*agents.Agent{agent(t, m, "Lestrade", 0, agents.Stationary)},
		Getaway:    1,
		MaxTurns:   4,
	})
	require.NoError(t, err)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeUp, res.Outcome)
	assert.Equal(t, uint64(4), res.Turns)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, EventTimeout, res.Events[len(res.Events)-1].Kind)
	assert.Len(t, res.Events, 4*2+1)
}

func TestChase_OverBeforeFirstTurn(t *testing.T) {
	m := lineMap(t)
	c, err := NewChase(ChaseConfig{
		Map:        m,
		Thief:      agent(t, m, "Raffles", 2, agents.Stationary),
		Detectives: []*agents.Agent{agent(t, m, "Lestrade", 2, agents.Stationary)},
		Getaway:    0,
	})
	require.NoError(t, err)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCaught, res.Outcome)
	assert.Zero(t, res.Turns)
}

func TestChase_Cancelled(t *testing.T) {
	m := lineMap(t)
	c, err := NewChase(ChaseConfig{
		Map:     m,
		Thief:   agent(t, m, "Raffles", 3, agents.Stationary),
		Getaway: 0,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeRunning, res.Outcome)
}

func TestNewChase_Validation(t *testing.T) {
	m := lineMap(t)
	thief := agent(t, m, "Raffles", 0, agents.Stationary)

	_, err := NewChase(ChaseConfig{Thief: thief})
	assert.ErrorIs(t, err, agents.ErrNilMap)

	_, err = NewChase(ChaseConfig{Map: m})
	assert.ErrorIs(t, err, ErrNoThief)

	_, err = NewChase(ChaseConfig{Map: m, Thief: thief, Getaway: 9})
	assert.ErrorIs(t, err, ErrInvalidGetaway)

	_, err = NewChase(ChaseConfig{Map: m, Thief: thief, Getaway: 1, Informants: []world.CityID{2, -1}})
	assert.ErrorIs(t, err, ErrInvalidInformant)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "caught", OutcomeCaught.String())
	assert.Equal(t, "time-up", OutcomeTimeUp.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
