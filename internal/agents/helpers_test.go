package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/citychase/internal/world"
)

// road is a fixture edge: a, b, length.
type road [3]int

func buildMap(t *testing.T, numCities int, roads ...road) *world.Map {
	t.Helper()
	m, err := world.NewMap(numCities)
	require.NoError(t, err)
	for _, r := range roads {
		inserted, err := m.InsertRoad(world.CityID(r[0]), world.CityID(r[1]), r[2])
		require.NoError(t, err)
		require.True(t, inserted, "duplicate fixture road %v", r)
	}
	return m
}

func newAgent(t *testing.T, m *world.Map, start, stamina int, strategy Strategy) *Agent {
	t.Helper()
	a, err := New(Config{
		Name:       "tester",
		Start:      world.CityID(start),
		MaxStamina: stamina,
		Strategy:   strategy,
		Rand:       rand.New(rand.NewSource(7)),
	}, m)
	require.NoError(t, err)
	return a
}

// step asks for the next move and commits it.
func step(t *testing.T, a *Agent) Move {
	t.Helper()
	mv := a.NextMove()
	require.NoError(t, a.ApplyMove(mv))
	return mv
}

// randomMap builds a graph with n cities where each pair is joined with
// probability p and lengths fall in [0, maxLen].
func randomMap(t *testing.T, rng *rand.Rand, n int, p float64, maxLen int) *world.Map {
	t.Helper()
	m, err := world.NewMap(n)
	require.NoError(t, err)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if rng.Float64() < p {
				_, err := m.InsertRoad(world.CityID(a), world.CityID(b), rng.Intn(maxLen+1))
				require.NoError(t, err)
			}
		}
	}
	return m
}

// connectedMap is randomMap plus a chain through every city.
func connectedMap(t *testing.T, rng *rand.Rand, n int, p float64, maxLen int) *world.Map {
	t.Helper()
	m := randomMap(t, rng, n, p, maxLen)
	for c := 1; c < n; c++ {
		_, err := m.InsertRoad(world.CityID(c-1), world.CityID(c), rng.Intn(maxLen+1))
		require.NoError(t, err)
	}
	return m
}

// reachable returns the cities reachable from start over roads no longer
// than limit (NoLimit for all roads).
func reachable(m *world.Map, start world.CityID, limit int) map[world.CityID]bool {
	seen := map[world.CityID]bool{start: true}
	queue := []world.CityID{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, r := range m.RoadsFrom(c) {
			if seen[r.To] || (limit != NoLimit && r.Length > limit) {
				continue
			}
			seen[r.To] = true
			queue = append(queue, r.To)
		}
	}
	return seen
}
