package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connected(m *Map) bool {
	if m.NumCities() == 0 {
		return true
	}
	seen := make([]bool, m.NumCities())
	seen[0] = true
	stack := []CityID{0}
	count := 1
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, r := range m.RoadsFrom(c) {
			if !seen[r.To] {
				seen[r.To] = true
				count++
				stack = append(stack, r.To)
			}
		}
	}
	return count == m.NumCities()
}

func TestGenerate_SmallConfig(t *testing.T) {
	cfg := SmallTestConfig()
	m, layout, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.NumCities, m.NumCities())
	assert.True(t, connected(m), "generated map must be connected")
	require.Len(t, layout.Sites, cfg.NumCities)
	assert.Equal(t, cfg.Seed, layout.Seed)

	names := map[string]bool{}
	for _, s := range layout.Sites {
		assert.NotEqual(t, TerrainWater, s.Terrain)
		assert.LessOrEqual(t, Distance(s.Coord, HexCoord{}), cfg.Radius)
		assert.Equal(t, s.Name, m.Name(s.City))
		assert.False(t, names[s.Name], "duplicate name %s", s.Name)
		names[s.Name] = true
	}
	for _, r := range m.Roads() {
		assert.GreaterOrEqual(t, r.Length, 1)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a, la, err := Generate(cfg)
	require.NoError(t, err)
	b, lb, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Roads(), b.Roads())
	assert.Equal(t, la.Sites, lb.Sites)
}

func TestGenerate_EachCityLinked(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7
	m, _, err := Generate(cfg)
	require.NoError(t, err)

	for c := 0; c < m.NumCities(); c++ {
		assert.GreaterOrEqual(t, m.Degree(CityID(c)), cfg.Links)
	}
	assert.True(t, connected(m))
}

func TestGenerate_RandomSeed(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Seed = 0
	_, layout, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotZero(t, layout.Seed)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	for name, mutate := range map[string]func(*GenConfig){
		"radius":      func(c *GenConfig) { c.Radius = 0 },
		"cities":      func(c *GenConfig) { c.NumCities = 0 },
		"links":       func(c *GenConfig) { c.Links = 0 },
		"levels":      func(c *GenConfig) { c.SeaLevel = 0.9 },
		"overcrowded": func(c *GenConfig) { c.Radius = 1; c.NumCities = 50 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := SmallTestConfig()
			mutate(&cfg)
			_, _, err := Generate(cfg)
			assert.ErrorIs(t, err, ErrGenConfig)
		})
	}
}

func TestHexDistance(t *testing.T) {
	origin := HexCoord{}
	for _, n := range origin.Neighbors() {
		assert.Equal(t, 1, Distance(origin, n))
	}
	assert.Equal(t, 3, Distance(HexCoord{Q: 1, R: -2}, HexCoord{Q: -1, R: 1}))
	assert.Equal(t, 0, Distance(HexCoord{Q: 2, R: 2}, HexCoord{Q: 2, R: 2}))
}
