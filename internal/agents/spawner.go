// Agent spawning gives each agent of a run its own seeded random stream, a
// start city and a name when the scenario leaves them out.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/talgya/citychase/internal/entropy"
	"github.com/talgya/citychase/internal/world"
)

// AnyCity asks the spawner to pick a start city.
const AnyCity world.CityID = -1

// Spawner creates the agents of one run.
type Spawner struct {
	seed   int64
	rng    *rand.Rand
	nextID int
	used   map[string]bool
}

// NewSpawner creates an agent spawner with the given run seed.
func NewSpawner(seed int64) *Spawner {
	seed = entropy.Resolve(seed)
	return &Spawner{
		seed: seed,
		rng:  entropy.New(entropy.Derive(seed, entropy.OffsetAgents, 0)),
		used: make(map[string]bool),
	}
}

// Seed returns the run seed the spawner derives agent streams from.
func (s *Spawner) Seed() int64 {
	return s.seed
}

// Spawn creates the next agent on m. A blank name is replaced by a generated
// one, a start of AnyCity by a random city, and every agent gets its own
// random stream whether or not its strategy needs it.
func (s *Spawner) Spawn(cfg Config, m *world.Map) (*Agent, error) {
	if m == nil {
		return nil, ErrNilMap
	}
	s.nextID++

	if cfg.Start == AnyCity {
		if m.NumCities() == 0 {
			return nil, fmt.Errorf("%w: map has no cities", ErrInvalidStart)
		}
		cfg.Start = world.CityID(s.rng.Intn(m.NumCities()))
	}
	if cfg.Name == "" {
		cfg.Name = s.generateName()
	}
	s.used[cfg.Name] = true
	if cfg.Rand == nil {
		cfg.Rand = entropy.New(entropy.Derive(s.seed, entropy.OffsetAgents, s.nextID))
	}

	a, err := New(cfg, m)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", cfg.Name, err)
	}
	return a, nil
}

func (s *Spawner) generateName() string {
	for tries := 0; tries < 32; tries++ {
		firsts := maleNames
		if s.rng.Float32() < 0.5 {
			firsts = femaleNames
		}
		name := firsts[s.rng.Intn(len(firsts))] + " " + lastNames[s.rng.Intn(len(lastNames))]
		if !s.used[name] {
			return name
		}
	}
	return fmt.Sprintf("Agent %d", s.nextID)
}

// Name pools for procedural generation.
var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Dunmore", "Greenvale",
	"Stormcrow", "Millward", "Ravenmoor", "Silverdale", "Deepwell",
	"Redforge", "Marshwood", "Holloway", "Farrow", "Thatcher", "Mercer",
}
