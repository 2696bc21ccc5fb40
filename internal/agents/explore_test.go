package agents

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citychase/internal/world"
)

func TestExploreTour_Order(t *testing.T) {
	m := buildMap(t, 5,
		road{0, 2, 4},
		road{0, 1, 1},
		road{1, 3, 2},
		road{2, 4, 3},
		road{3, 4, 5},
	)

	want := []Move{
		{To: 1, StaminaCost: 1},
		{To: 3, StaminaCost: 2},
		{To: 4, StaminaCost: 5},
		{To: 2, StaminaCost: 3},
		{To: 4, StaminaCost: 3},
		{To: 3, StaminaCost: 5},
		{To: 1, StaminaCost: 2},
		{To: 0, StaminaCost: 1},
	}
	if diff := cmp.Diff(want, ExploreTour(m, 0, NoLimit)); diff != "" {
		t.Errorf("tour mismatch (-want +got):\n%s", diff)
	}
}

func TestExploreTour_LimitSkipsLongRoads(t *testing.T) {
	m := buildMap(t, 3, road{0, 1, 2}, road{0, 2, 9})

	assert.Equal(t, []Move{{To: 1, StaminaCost: 2}, {To: 0, StaminaCost: 2}}, ExploreTour(m, 0, 5))
	assert.Len(t, ExploreTour(m, 0, NoLimit), 4)
}

func TestExploreTour_EdgeCases(t *testing.T) {
	m := buildMap(t, 3, road{1, 2, 1})

	assert.Empty(t, ExploreTour(m, 0, NoLimit), "isolated city")
	assert.Nil(t, ExploreTour(m, 7, NoLimit), "invalid city")
	assert.Len(t, ExploreTour(m, 1, NoLimit), 2, "stays in its component")
}

func TestExploreTour_ClosedWalkCoversComponent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	for trial := 0; trial < 100; trial++ {
		m := randomMap(t, rng, 1+rng.Intn(12), 0.25, 5)
		from := world.CityID(rng.Intn(m.NumCities()))
		tour := ExploreTour(m, from, NoLimit)

		want := reachable(m, from, NoLimit)
		require.Len(t, tour, 2*(len(want)-1), "one out and one back per tree road")

		pos := from
		seen := map[world.CityID]bool{from: true}
		for i, mv := range tour {
			length, ok := m.ContainsRoad(pos, mv.To)
			require.True(t, ok, "trial %d move %d: no road %d-%d", trial, i, pos, mv.To)
			require.Equal(t, length, mv.StaminaCost)
			pos = mv.To
			seen[pos] = true
		}
		assert.Equal(t, from, pos, "walk must return to its start")
		assert.Equal(t, want, seen)
	}
}

func TestExploreTour_DeepChainDoesNotRecurse(t *testing.T) {
	const n = 50000
	m, err := world.NewMap(n)
	require.NoError(t, err)
	for c := 1; c < n; c++ {
		_, err := m.InsertRoad(world.CityID(c-1), world.CityID(c), 1)
		require.NoError(t, err)
	}

	tour := ExploreTour(m, 0, NoLimit)
	require.Len(t, tour, 2*(n-1))
	assert.Equal(t, world.CityID(n-1), tour[n-2].To)
	assert.Equal(t, world.CityID(0), tour[len(tour)-1].To)
}
