// Map generation using layered simplex noise.
// Terrain is sampled over a hex grid, cities are placed on the best land and
// joined by roads whose length follows the terrain between them.
package world

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/citychase/internal/entropy"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Radius      int     `yaml:"radius"`       // Hex grid radius
	Seed        int64   `yaml:"seed"`         // Random seed (0 = random)
	NumCities   int     `yaml:"cities"`       // Cities to place
	Links       int     `yaml:"links"`        // Nearest neighbours each city is joined to
	SeaLevel    float64 `yaml:"sea_level"`    // Elevation threshold for water (0.0–1.0)
	MountainLvl float64 `yaml:"mountain_lvl"` // Elevation threshold for mountains (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      12,
		Seed:        0,
		NumCities:   30,
		Links:       2,
		SeaLevel:    0.25,
		MountainLvl: 0.72,
	}
}

// SmallTestConfig returns a tiny map for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:      5,
		Seed:        42,
		NumCities:   8,
		Links:       2,
		SeaLevel:    0.20,
		MountainLvl: 0.75,
	}
}

// Validate checks that a map can be generated from cfg.
func (cfg GenConfig) Validate() error {
	switch {
	case cfg.Radius < 1:
		return fmt.Errorf("%w: radius %d", ErrGenConfig, cfg.Radius)
	case cfg.NumCities < 1:
		return fmt.Errorf("%w: %d cities", ErrGenConfig, cfg.NumCities)
	case cfg.Links < 1:
		return fmt.Errorf("%w: %d links", ErrGenConfig, cfg.Links)
	case cfg.SeaLevel < 0 || cfg.SeaLevel >= cfg.MountainLvl || cfg.MountainLvl > 1:
		return fmt.Errorf("%w: sea level %.2f, mountain level %.2f", ErrGenConfig, cfg.SeaLevel, cfg.MountainLvl)
	}
	return nil
}

// Site is where a generated city sits on the hex grid.
type Site struct {
	City    CityID   `json:"city"`
	Name    string   `json:"name"`
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`
}

// Layout records the geography behind a generated map. It is only needed for
// display; agents never look at it.
type Layout struct {
	Radius  int                  `json:"radius"`
	Seed    int64                `json:"seed"`
	Sites   []Site               `json:"sites"`
	Terrain map[HexCoord]Terrain `json:"-"`
}

// Generate creates a connected city map.
func Generate(cfg GenConfig) (*Map, *Layout, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.NewSeed()
	}

	terrain := sampleTerrain(cfg, seed)
	sites, err := placeCities(terrain, cfg.NumCities, seed)
	if err != nil {
		return nil, nil, err
	}

	m, err := NewMap(len(sites))
	if err != nil {
		return nil, nil, err
	}
	for _, s := range sites {
		if err := m.SetName(s.City, s.Name); err != nil {
			return nil, nil, err
		}
	}
	if err := buildRoads(m, sites, cfg.Links); err != nil {
		return nil, nil, err
	}

	slog.Debug("map generated", "seed", seed, "cities", m.NumCities(), "roads", m.NumRoads())
	return m, &Layout{Radius: cfg.Radius, Seed: seed, Sites: sites, Terrain: terrain}, nil
}

// sampleTerrain derives a terrain for every hex within the radius.
func sampleTerrain(cfg GenConfig, seed int64) map[HexCoord]Terrain {
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)

	terrain := make(map[HexCoord]Terrain)
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if Distance(coord, HexCoord{}) > cfg.Radius {
				continue
			}

			// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.10, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.08, 0.5)

			// Continental shaping keeps water towards the rim.
			distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
			edgeFalloff := 1.0 - math.Pow(distFromCenter, 3.5)
			if edgeFalloff < 0 {
				edgeFalloff = 0
			}
			elev *= edgeFalloff

			terrain[coord] = deriveTerrain(elev, rain, cfg)
		}
	}
	return terrain
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(elev, rain float64, cfg GenConfig) Terrain {
	if elev < cfg.SeaLevel {
		return TerrainWater
	}
	if elev > cfg.MountainLvl {
		return TerrainMountain
	}
	if elev > cfg.MountainLvl-0.12 {
		return TerrainHills
	}
	if rain > 0.7 && elev < 0.45 {
		return TerrainSwamp
	}
	if rain > 0.5 {
		return TerrainForest
	}
	return TerrainPlains
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// roadLength is the stamina cost between two sites: hex distance weighted by
// the mean travel cost of both ends, never below 1.
func roadLength(a, b Site) int {
	cost := float64(a.Terrain.TravelCost()+b.Terrain.TravelCost()) / 2
	return max(1, int(math.Round(float64(Distance(a.Coord, b.Coord))*cost)))
}

// buildRoads joins every city to its nearest neighbours, then bridges any
// components left apart so the map is connected.
func buildRoads(m *Map, sites []Site, links int) error {
	for _, s := range sites {
		others := make([]Site, 0, len(sites)-1)
		for _, o := range sites {
			if o.City != s.City {
				others = append(others, o)
			}
		}
		sort.Slice(others, func(i, j int) bool {
			di, dj := Distance(s.Coord, others[i].Coord), Distance(s.Coord, others[j].Coord)
			if di != dj {
				return di < dj
			}
			return others[i].City < others[j].City
		})
		for _, o := range others[:min(links, len(others))] {
			if _, err := m.InsertRoad(s.City, o.City, roadLength(s, o)); err != nil {
				return err
			}
		}
	}

	comp := newComponents(m)
	for comp.count > 1 {
		// Closest pair of sites that sit in different components.
		var best [2]Site
		bestDist := math.MaxInt
		for _, a := range sites {
			for _, b := range sites {
				if a.City >= b.City || comp.find(a.City) == comp.find(b.City) {
					continue
				}
				if d := Distance(a.Coord, b.Coord); d < bestDist {
					bestDist = d
					best = [2]Site{a, b}
				}
			}
		}
		if _, err := m.InsertRoad(best[0].City, best[1].City, roadLength(best[0], best[1])); err != nil {
			return err
		}
		comp.union(best[0].City, best[1].City)
	}
	return nil
}

// components is a small union-find over cities.
type components struct {
	parent []CityID
	count  int
}

func newComponents(m *Map) *components {
	c := &components{parent: make([]CityID, m.NumCities()), count: m.NumCities()}
	for i := range c.parent {
		c.parent[i] = CityID(i)
	}
	for _, r := range m.Roads() {
		c.union(r.From, r.To)
	}
	return c
}

func (c *components) find(x CityID) CityID {
	for c.parent[x] != x {
		c.parent[x] = c.parent[c.parent[x]]
		x = c.parent[x]
	}
	return x
}

func (c *components) union(a, b CityID) {
	ra, rb := c.find(a), c.find(b)
	if ra != rb {
		c.parent[rb] = ra
		c.count--
	}
}

// TerrainCounts returns a summary of terrain type distribution.
func (l *Layout) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range l.Terrain {
		counts[t]++
	}
	return counts
}
