package agents

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/citychase/internal/world"
)

// bruteForceTurns searches every (city, stamina) state. Each turn the agent
// either rests (stamina back to max) or takes one affordable road. Returns
// -1 when the target cannot be reached.
func bruteForceTurns(m *world.Map, from, to world.CityID, stamina, maxStamina int) int {
	type state struct {
		city    world.CityID
		stamina int
	}
	start := state{from, min(stamina, maxStamina)}
	dist := map[state]int{start: 0}
	queue := []state{start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.city == to {
			return dist[s]
		}
		next := []state{{s.city, maxStamina}}
		for _, r := range m.RoadsFrom(s.city) {
			if r.Length <= s.stamina {
				next = append(next, state{r.To, s.stamina - r.Length})
			}
		}
		for _, n := range next {
			if _, ok := dist[n]; !ok {
				dist[n] = dist[s] + 1
				queue = append(queue, n)
			}
		}
	}
	return -1
}

// replayTurns walks a path the way an agent does, resting whenever the next
// road costs more than it has left.
func replayTurns(t *testing.T, m *world.Map, from world.CityID, p Path, stamina, maxStamina int) int {
	t.Helper()
	pos, turns := from, 0
	for _, mv := range p.Moves {
		length, ok := m.ContainsRoad(pos, mv.To)
		require.True(t, ok, "no road %d-%d", pos, mv.To)
		require.Equal(t, length, mv.StaminaCost)
		require.LessOrEqual(t, mv.StaminaCost, maxStamina)
		if mv.StaminaCost > stamina {
			turns++
			stamina = maxStamina
		}
		stamina -= mv.StaminaCost
		turns++
		pos = mv.To
	}
	return turns
}

func TestLeastTurnsPath_SingleLeg(t *testing.T) {
	m := buildMap(t, 3, road{0, 1, 3}, road{1, 2, 2})

	p, err := LeastTurnsPath(m, 0, 2, 5, 5)
	require.NoError(t, err)
	want := Path{Moves: []Move{{To: 1, StaminaCost: 3}, {To: 2, StaminaCost: 2}}, Turns: 2}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, p.Cost())
}

func TestLeastTurnsPath_CountsRests(t *testing.T) {
	m := buildMap(t, 3, road{0, 1, 4}, road{1, 2, 4})

	p, err := LeastTurnsPath(m, 0, 2, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Turns)
	assert.Len(t, p.Moves, 2)
}

func TestLeastTurnsPath_FewerTurnsBeatsFewerRoads(t *testing.T) {
	// Direct road needs a rest first when starting tired; the detour does not
	// but takes three roads.
	m := buildMap(t, 4, road{0, 3, 6}, road{0, 1, 1}, road{1, 2, 1}, road{2, 3, 1})

	p, err := LeastTurnsPath(m, 0, 3, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Turns)
	assert.Equal(t, []Move{{To: 3, StaminaCost: 6}}, p.Moves)

	p, err = LeastTurnsPath(m, 0, 3, 6, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Turns)
}

func TestLeastTurnsPath_PrefersMoreStaminaOnTies(t *testing.T) {
	// Both routes take two roads; via 2 leaves more stamina.
	m := buildMap(t, 4, road{0, 1, 2}, road{1, 3, 3}, road{0, 2, 1}, road{2, 3, 1})

	p, err := LeastTurnsPath(m, 0, 3, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, []Move{{To: 2, StaminaCost: 1}, {To: 3, StaminaCost: 1}}, p.Moves)
}

func TestLeastTurnsPath_SkipsImpassableRoads(t *testing.T) {
	m := buildMap(t, 3, road{0, 1, 10}, road{0, 2, 2}, road{2, 1, 2})

	p, err := LeastTurnsPath(m, 0, 1, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []Move{{To: 2, StaminaCost: 2}, {To: 1, StaminaCost: 2}}, p.Moves)
	assert.Equal(t, 2, p.Turns)
}

func TestLeastTurnsPath_Failures(t *testing.T) {
	m := buildMap(t, 3, road{0, 1, 1}, road{1, 2, 9})

	_, err := LeastTurnsPath(m, 0, 2, 5, 5)
	assert.ErrorIs(t, err, ErrNoPath, "only road to 2 is too long")

	_, err = LeastTurnsPath(m, 0, 3, 5, 5)
	assert.ErrorIs(t, err, world.ErrNoSuchCity)

	_, err = LeastTurnsPath(m, -1, 0, 5, 5)
	assert.ErrorIs(t, err, world.ErrNoSuchCity)

	p, err := LeastTurnsPath(m, 1, 1, 5, 5)
	require.NoError(t, err)
	assert.Empty(t, p.Moves)
	assert.Zero(t, p.Turns)
}

func TestLeastTurnsPath_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 500; trial++ {
		m := randomMap(t, rng, 2+rng.Intn(8), 0.3, 7)
		maxStamina := rng.Intn(9)
		stamina := rng.Intn(maxStamina + 1)
		from := world.CityID(rng.Intn(m.NumCities()))
		to := world.CityID(rng.Intn(m.NumCities()))

		want := bruteForceTurns(m, from, to, stamina, maxStamina)
		p, err := LeastTurnsPath(m, from, to, stamina, maxStamina)
		if want < 0 {
			require.ErrorIs(t, err, ErrNoPath, "trial %d", trial)
			continue
		}
		require.NoError(t, err, "trial %d", trial)
		require.Equal(t, want, p.Turns, "trial %d: %d -> %d stamina %d/%d", trial, from, to, stamina, maxStamina)
		require.Equal(t, p.Turns, replayTurns(t, m, from, p, stamina, maxStamina), "trial %d", trial)
		if len(p.Moves) > 0 {
			require.Equal(t, to, p.Moves[len(p.Moves)-1].To)
		}
	}
}

func TestNextMove_TipOffFollowsOptimalRoute(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	for trial := 0; trial < 100; trial++ {
		m := connectedMap(t, rng, 3+rng.Intn(6), 0.3, 5)
		a := newAgent(t, m, rng.Intn(m.NumCities()), 5, Stationary)
		target := world.CityID(rng.Intn(m.NumCities()))
		if target == a.Location() {
			continue
		}
		want := bruteForceTurns(m, a.Location(), target, a.Stamina(), a.MaxStamina())
		require.NoError(t, a.TipOff(target))

		turns := 0
		for a.Location() != target {
			step(t, a)
			turns++
			require.LessOrEqual(t, turns, want, "trial %d overshot", trial)
		}
		assert.Equal(t, want, turns, "trial %d", trial)
	}
}
