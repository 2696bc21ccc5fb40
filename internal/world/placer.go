// City placement: scores land hexes and spreads cities across the best of them.
package world

import (
	"fmt"
	"math/rand"
	"sort"
)

// placeCities picks count land hexes for cities. Cities are kept apart by a
// minimum spacing that shrinks when the land cannot fit them all.
func placeCities(terrain map[HexCoord]Terrain, count int, seed int64) ([]Site, error) {
	rng := rand.New(rand.NewSource(seed + 200))

	type scored struct {
		coord HexCoord
		score float64
	}
	// Map iteration order is random; walk the land in coordinate order so
	// the jitter draws, and so placement, are reproducible for a seed.
	land := make([]HexCoord, 0, len(terrain))
	for coord, t := range terrain {
		if t != TerrainWater {
			land = append(land, coord)
		}
	}
	sort.Slice(land, func(i, j int) bool { return lessCoord(land[i], land[j]) })

	candidates := make([]scored, 0, len(land))
	for _, coord := range land {
		candidates = append(candidates, scored{coord, siteScore(terrain, coord, terrain[coord]) + rng.Float64()*0.1})
	}
	if len(candidates) < count {
		return nil, fmt.Errorf("%w: %d cities but only %d land hexes", ErrGenConfig, count, len(candidates))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var chosen []HexCoord
	taken := make(map[HexCoord]bool)
	for spacing := 3; len(chosen) < count && spacing >= 1; spacing-- {
		for _, c := range candidates {
			if len(chosen) >= count {
				break
			}
			if taken[c.coord] || tooClose(c.coord, chosen, spacing) {
				continue
			}
			taken[c.coord] = true
			chosen = append(chosen, c.coord)
		}
	}

	names := generateNames(rng, count)
	sites := make([]Site, count)
	for i, coord := range chosen {
		sites[i] = Site{City: CityID(i), Name: names[i], Coord: coord, Terrain: terrain[coord]}
	}
	return sites, nil
}

// siteScore evaluates how desirable a hex is for a city.
// Prefers easy ground with varied surroundings and nearby water.
func siteScore(terrain map[HexCoord]Terrain, coord HexCoord, t Terrain) float64 {
	score := 0.0

	switch t {
	case TerrainPlains:
		score += 3.0
	case TerrainForest:
		score += 1.5
	case TerrainHills:
		score += 1.0
	case TerrainSwamp:
		score += 0.5
	case TerrainMountain:
		score += 0.3
	}

	kinds := make(map[Terrain]bool)
	water := false
	for _, nc := range coord.Neighbors() {
		nt, ok := terrain[nc]
		if !ok {
			continue
		}
		if nt == TerrainWater {
			water = true
			continue
		}
		kinds[nt] = true
	}
	score += float64(len(kinds)) * 0.3
	if water {
		score += 0.5
	}
	return score
}

func lessCoord(a, b HexCoord) bool {
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	return a.R < b.R
}

func tooClose(coord HexCoord, existing []HexCoord, minDist int) bool {
	for _, e := range existing {
		if Distance(coord, e) < minDist {
			return true
		}
	}
	return false
}

// generateNames produces procedural city names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	suffixes := []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)

	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if used[name] {
			// Past the syllable space, fall back to numbered names.
			if len(used) >= len(prefixes)*len(suffixes) {
				name = fmt.Sprintf("%s %d", name, len(names))
			} else {
				continue
			}
		}
		used[name] = true
		names = append(names, name)
	}

	return names
}
