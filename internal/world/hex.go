package world

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Terrain types for generated city sites.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Easy going
	TerrainForest                  // Slower tracks
	TerrainHills                   // Climbs both ways
	TerrainMountain                // Passes only
	TerrainSwamp                   // Worst footing
	TerrainWater                   // No cities
)

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	return max(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S()-b.S()))
}

// TravelCost is the stamina spent per hex crossed on this terrain.
func (t Terrain) TravelCost() int {
	switch t {
	case TerrainPlains:
		return 1
	case TerrainForest:
		return 2
	case TerrainHills:
		return 2
	case TerrainMountain:
		return 4
	case TerrainSwamp:
		return 3
	default:
		return 5
	}
}

// String returns a human-readable name for a terrain type.
func (t Terrain) String() string {
	switch t {
	case TerrainPlains:
		return "Plains"
	case TerrainForest:
		return "Forest"
	case TerrainHills:
		return "Hills"
	case TerrainMountain:
		return "Mountain"
	case TerrainSwamp:
		return "Swamp"
	case TerrainWater:
		return "Water"
	default:
		return "Unknown"
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
