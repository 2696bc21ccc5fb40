// Package config loads chase scenarios from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/citychase/internal/agents"
	"github.com/talgya/citychase/internal/world"
)

var (
	ErrConfigNotFound    = errors.New("scenario file not found")
	ErrUnsupportedFormat = errors.New("unsupported scenario format")
	ErrInvalidFormat     = errors.New("invalid scenario format")
	ErrValidation        = errors.New("invalid scenario")
	ErrUnknownCity       = errors.New("unknown city")
)

// Defaults applied to fields a scenario leaves out.
const (
	DefaultMaxTurns = 200
	DefaultStamina  = 10
)

// Scenario is one chase: the map to play on and who plays.
type Scenario struct {
	Name       string      `yaml:"name"`
	Seed       int64       `yaml:"seed"`      // 0 = random
	MaxTurns   uint64      `yaml:"max_turns"` // 0 = DefaultMaxTurns
	Map        MapSource   `yaml:"map"`
	Thief      AgentSpec   `yaml:"thief"`
	Detectives []AgentSpec `yaml:"detectives"`
	Informants []CityRef   `yaml:"informants"`
	Getaway    *CityRef    `yaml:"getaway"`

	// Directory of the scenario file; relative map files resolve against it.
	BaseDir string `yaml:"-"`
}

// MapSource names exactly one place to get the map from.
type MapSource struct {
	File     string           `yaml:"file"`     // Text map file
	Stored   string           `yaml:"stored"`   // Map saved in the database
	Generate *world.GenConfig `yaml:"generate"` // Generated at load time
}

// AgentSpec describes one agent. Blank names are generated and a missing
// start picks a random city.
type AgentSpec struct {
	Name     string           `yaml:"name"`
	Start    *CityRef         `yaml:"start"`
	Stamina  int              `yaml:"stamina"`
	Strategy *agents.Strategy `yaml:"strategy"`
}

// CityRef points at a city by number or by name.
type CityRef struct {
	ID   world.CityID
	Name string
}

// UnmarshalYAML accepts an integer id or a city name.
func (c *CityRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: city must be a number or a name", node.Line)
	}
	if node.ShortTag() == "!!int" {
		id, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*c = CityRef{ID: world.CityID(id)}
		return nil
	}
	*c = CityRef{Name: node.Value}
	return nil
}

// ParseCityRef reads a command-line city: a number is an id, anything else
// a name.
func ParseCityRef(s string) CityRef {
	if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return CityRef{ID: world.CityID(id)}
	}
	return CityRef{Name: strings.TrimSpace(s)}
}

// Resolve finds the city on m.
func (c CityRef) Resolve(m *world.Map) (world.CityID, error) {
	if c.Name == "" {
		if !m.Valid(c.ID) {
			return 0, fmt.Errorf("%w: %d", ErrUnknownCity, c.ID)
		}
		return c.ID, nil
	}
	for i := 0; i < m.NumCities(); i++ {
		if strings.EqualFold(m.Name(world.CityID(i)), c.Name) {
			return world.CityID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCity, c.Name)
}

// String returns the reference as written.
func (c CityRef) String() string {
	if c.Name != "" {
		return c.Name
	}
	return strconv.Itoa(int(c.ID))
}

// LoadFile loads a scenario from a .yaml, .yml or .json file.
func LoadFile(path string) (*Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access scenario file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer f.Close()

	sc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.BaseDir = filepath.Dir(path)
	return sc, nil
}

// Load parses, defaults and validates a scenario. JSON is accepted as YAML.
func Load(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *Scenario) applyDefaults() {
	if s.MaxTurns == 0 {
		s.MaxTurns = DefaultMaxTurns
	}
	if s.Thief.Name == "" {
		s.Thief.Name = "thief"
	}
	defaultAgent(&s.Thief, agents.Random)
	for i := range s.Detectives {
		defaultAgent(&s.Detectives[i], agents.CheapestLeastVisited)
	}
	if s.Map.Generate != nil {
		gen := world.DefaultGenConfig()
		overlayGen(&gen, *s.Map.Generate)
		s.Map.Generate = &gen
	}
}

func defaultAgent(a *AgentSpec, strategy agents.Strategy) {
	if a.Stamina == 0 {
		a.Stamina = DefaultStamina
	}
	if a.Strategy == nil {
		a.Strategy = &strategy
	}
}

// overlayGen copies the fields set in src over dst.
func overlayGen(dst *world.GenConfig, src world.GenConfig) {
	if src.Radius != 0 {
		dst.Radius = src.Radius
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
	if src.NumCities != 0 {
		dst.NumCities = src.NumCities
	}
	if src.Links != 0 {
		dst.Links = src.Links
	}
	if src.SeaLevel != 0 {
		dst.SeaLevel = src.SeaLevel
	}
	if src.MountainLvl != 0 {
		dst.MountainLvl = src.MountainLvl
	}
}

// Validate checks what can be checked without the map.
func (s *Scenario) Validate() error {
	sources := 0
	if s.Map.File != "" {
		sources++
	}
	if s.Map.Stored != "" {
		sources++
	}
	if s.Map.Generate != nil {
		sources++
		if err := s.Map.Generate.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	if sources != 1 {
		return fmt.Errorf("%w: map needs exactly one of file, stored or generate (got %d)", ErrValidation, sources)
	}

	if s.Getaway == nil {
		return fmt.Errorf("%w: getaway city missing", ErrValidation)
	}
	if s.Thief.Stamina < 0 {
		return fmt.Errorf("%w: thief stamina %d", ErrValidation, s.Thief.Stamina)
	}

	names := map[string]bool{s.Thief.Name: true}
	for i, d := range s.Detectives {
		if d.Stamina < 0 {
			return fmt.Errorf("%w: detective %d stamina %d", ErrValidation, i, d.Stamina)
		}
		if d.Name == "" {
			continue
		}
		if names[d.Name] {
			return fmt.Errorf("%w: duplicate agent name %q", ErrValidation, d.Name)
		}
		names[d.Name] = true
	}
	return nil
}

// MapPath returns the map file resolved against the scenario directory.
func (s *Scenario) MapPath() string {
	if s.Map.File == "" || filepath.IsAbs(s.Map.File) || s.BaseDir == "" {
		return s.Map.File
	}
	return filepath.Join(s.BaseDir, s.Map.File)
}
