package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citychase/internal/world"
)

func TestSpawner_FillsBlanks(t *testing.T) {
	m := buildMap(t, 4, road{0, 1, 1}, road{1, 2, 1}, road{2, 3, 1})
	s := NewSpawner(11)

	a, err := s.Spawn(Config{Start: AnyCity, MaxStamina: 3, Strategy: Random}, m)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Name())
	assert.True(t, m.Valid(a.Location()))

	b, err := s.Spawn(Config{Name: "Vidocq", Start: 2, MaxStamina: 3, Strategy: Stationary}, m)
	require.NoError(t, err)
	assert.Equal(t, "Vidocq", b.Name())
	assert.Equal(t, world.CityID(2), b.Location())
}

func TestSpawner_SameSeedSameRun(t *testing.T) {
	m := buildMap(t, 6, road{0, 1, 1}, road{1, 2, 1}, road{2, 3, 1}, road{3, 4, 1}, road{4, 5, 1}, road{5, 0, 1})

	run := func() []world.CityID {
		s := NewSpawner(99)
		var trail []world.CityID
		for i := 0; i < 3; i++ {
			a, err := s.Spawn(Config{Start: AnyCity, MaxStamina: 2, Strategy: Random}, m)
			require.NoError(t, err)
			for turn := 0; turn < 20; turn++ {
				step(t, a)
				trail = append(trail, a.Location())
			}
		}
		return trail
	}
	assert.Equal(t, run(), run())
}

func TestSpawner_Errors(t *testing.T) {
	s := NewSpawner(1)

	_, err := s.Spawn(Config{Start: 0}, nil)
	assert.ErrorIs(t, err, ErrNilMap)

	empty, err := world.NewMap(0)
	require.NoError(t, err)
	_, err = s.Spawn(Config{Start: AnyCity}, empty)
	assert.ErrorIs(t, err, ErrInvalidStart)

	m := buildMap(t, 2, road{0, 1, 1})
	_, err = s.Spawn(Config{Name: "x", Start: 5}, m)
	assert.ErrorIs(t, err, ErrInvalidStart)
}

func TestSpawner_UniqueNames(t *testing.T) {
	m := buildMap(t, 2, road{0, 1, 1})
	s := NewSpawner(3)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		a, err := s.Spawn(Config{Start: 0, MaxStamina: 1}, m)
		require.NoError(t, err)
		assert.False(t, seen[a.Name()], "duplicate %s", a.Name())
		seen[a.Name()] = true
	}
}

func TestSpawner_Seed(t *testing.T) {
	assert.Equal(t, int64(42), NewSpawner(42).Seed())
	assert.NotZero(t, NewSpawner(0).Seed(), "a zero seed is replaced by a drawn one")
}
