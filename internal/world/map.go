// Package world provides the city graph the agents move over, plus the
// generator and text format used to build one.
package world

import (
	"fmt"
	"sort"
)

// CityID identifies a city. Valid ids are in [0, NumCities).
type CityID int

// UnnamedCity is returned by Name for cities that were never named.
const UnnamedCity = "unnamed"

// Road is a directional view of an undirected road.
type Road struct {
	From   CityID `json:"from"`
	To     CityID `json:"to"`
	Length int    `json:"length"` // Stamina cost to traverse
}

// adjacency entry; kept sorted ascending by city.
type link struct {
	city   CityID
	length int
}

// Map holds the cities, their names and the roads between them.
type Map struct {
	names    []string
	named    []bool
	adj      [][]link
	numRoads int
}

// MaxCities bounds the size of a map.
const MaxCities = 1 << 20

// NewMap creates a map with numCities cities and no roads.
func NewMap(numCities int) (*Map, error) {
	if numCities < 0 || numCities > MaxCities {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCityCount, numCities)
	}
	return &Map{
		names: make([]string, numCities),
		named: make([]bool, numCities),
		adj:   make([][]link, numCities),
	}, nil
}

// NumCities returns the number of cities.
func (m *Map) NumCities() int {
	return len(m.adj)
}

// NumRoads returns the number of undirected roads.
func (m *Map) NumRoads() int {
	return m.numRoads
}

// Valid reports whether city is a city of this map.
func (m *Map) Valid(city CityID) bool {
	return city >= 0 && int(city) < len(m.adj)
}

func (m *Map) check(city CityID) error {
	if !m.Valid(city) {
		return fmt.Errorf("%w: %d", ErrNoSuchCity, city)
	}
	return nil
}

// SetName assigns or overwrites the display name of a city.
func (m *Map) SetName(city CityID, name string) error {
	if err := m.check(city); err != nil {
		return err
	}
	m.names[city] = name
	m.named[city] = true
	return nil
}

// Name returns the display name of a city, or UnnamedCity.
func (m *Map) Name(city CityID) string {
	if !m.Valid(city) || !m.named[city] {
		return UnnamedCity
	}
	return m.names[city]
}

// InsertRoad adds an undirected road between a and b. If the pair is already
// connected nothing changes (the existing length is kept) and false is returned.
func (m *Map) InsertRoad(a, b CityID, length int) (bool, error) {
	if err := m.check(a); err != nil {
		return false, err
	}
	if err := m.check(b); err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: %d", ErrSelfLoop, a)
	}
	if length < 0 {
		return false, fmt.Errorf("%w: %d", ErrNegativeLength, length)
	}

	i, found := m.search(a, b)
	if found {
		return false, nil
	}
	m.adj[a] = insertLink(m.adj[a], i, link{city: b, length: length})
	j, _ := m.search(b, a)
	m.adj[b] = insertLink(m.adj[b], j, link{city: a, length: length})
	m.numRoads++
	return true, nil
}

// ContainsRoad returns the length of the road between a and b, if any.
func (m *Map) ContainsRoad(a, b CityID) (int, bool) {
	if !m.Valid(a) || !m.Valid(b) {
		return 0, false
	}
	i, found := m.search(a, b)
	if !found {
		return 0, false
	}
	return m.adj[a][i].length, true
}

// RoadsFrom returns every road leaving city, ascending by destination.
// The slice is freshly allocated and may be reordered by the caller.
func (m *Map) RoadsFrom(city CityID) []Road {
	if !m.Valid(city) {
		return nil
	}
	roads := make([]Road, len(m.adj[city]))
	for i, l := range m.adj[city] {
		roads[i] = Road{From: city, To: l.city, Length: l.length}
	}
	return roads
}

// Degree returns the number of roads leaving city.
func (m *Map) Degree(city CityID) int {
	if !m.Valid(city) {
		return 0
	}
	return len(m.adj[city])
}

// Roads returns each undirected road once, with From < To, ordered by From
// then To.
func (m *Map) Roads() []Road {
	roads := make([]Road, 0, m.numRoads)
	for from, links := range m.adj {
		for _, l := range links {
			if CityID(from) < l.city {
				roads = append(roads, Road{From: CityID(from), To: l.city, Length: l.length})
			}
		}
	}
	return roads
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(cities=%d, roads=%d)", m.NumCities(), m.NumRoads())
}

// search finds the position of to in from's adjacency.
func (m *Map) search(from, to CityID) (int, bool) {
	links := m.adj[from]
	i := sort.Search(len(links), func(k int) bool { return links[k].city >= to })
	return i, i < len(links) && links[i].city == to
}

func insertLink(links []link, i int, l link) []link {
	links = append(links, link{})
	copy(links[i+1:], links[i:])
	links[i] = l
	return links
}
