package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/talgya/citychase/internal/world"
)

// theme holds the colors used when rendering maps.
type theme struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	City   lipgloss.Style
	Dim    lipgloss.Style
	Border lipgloss.Style

	Terrain map[world.Terrain]lipgloss.Style
}

func defaultTheme() theme {
	primary := lipgloss.Color("#00ff9f")
	dim := lipgloss.Color("#6e7681")
	return theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(primary),
		City:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166")),
		Dim:    lipgloss.NewStyle().Foreground(dim),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),
		Terrain: map[world.Terrain]lipgloss.Style{
			world.TerrainPlains:   lipgloss.NewStyle().Foreground(lipgloss.Color("#a7c957")),
			world.TerrainForest:   lipgloss.NewStyle().Foreground(lipgloss.Color("#386641")),
			world.TerrainHills:    lipgloss.NewStyle().Foreground(lipgloss.Color("#bc6c25")),
			world.TerrainMountain: lipgloss.NewStyle().Foreground(lipgloss.Color("#adb5bd")),
			world.TerrainSwamp:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6a994e")),
			world.TerrainWater:    lipgloss.NewStyle().Foreground(lipgloss.Color("#219ebc")),
		},
	}
}

var terrainGlyphs = map[world.Terrain]string{
	world.TerrainPlains:   ".",
	world.TerrainForest:   "\"",
	world.TerrainHills:    "n",
	world.TerrainMountain: "^",
	world.TerrainSwamp:    ",",
	world.TerrainWater:    "~",
}

type showOptions struct {
	name string
	gen  world.GenConfig
}

func (a *app) newShowCmd() *cobra.Command {
	opts := &showOptions{gen: world.SmallTestConfig()}

	cmd := &cobra.Command{
		Use:   "show [map file]",
		Short: "Render a map in the terminal",
		Long: `Render a map: a text map file, a map stored in the database, or a freshly
generated map drawn on its hex terrain.

Examples:
  citychase show valley.map
  citychase show --db maps.db --name valley
  citychase show --seed 7 --cities 12 --radius 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.show(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Stored map to show")
	cmd.Flags().Int64Var(&opts.gen.Seed, "seed", opts.gen.Seed, "Generator seed when neither a file nor --name is given")
	cmd.Flags().IntVar(&opts.gen.NumCities, "cities", opts.gen.NumCities, "Number of generated cities")
	cmd.Flags().IntVar(&opts.gen.Radius, "radius", opts.gen.Radius, "Generated hex grid radius")

	return cmd
}

func (a *app) show(opts *showOptions, args []string) error {
	th := defaultTheme()

	var (
		m      *world.Map
		layout *world.Layout
		title  string
		err    error
	)
	switch {
	case len(args) == 1:
		m, err = readMapFile(args[0])
		title = args[0]
	case opts.name != "":
		db, dbErr := a.requireDB()
		if dbErr != nil {
			return dbErr
		}
		defer db.Close()
		m, err = db.LoadMap(opts.name)
		title = opts.name
	default:
		m, layout, err = world.Generate(opts.gen)
		if layout != nil {
			title = fmt.Sprintf("generated, seed %d", layout.Seed)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, th.Title.Render(fmt.Sprintf("%s: %s", title, m)))
	if layout != nil {
		fmt.Fprintln(a.stdout, th.Border.Render(renderHexes(th, layout)))
	}
	fmt.Fprintln(a.stdout, renderCities(th, m))
	return nil
}

func readMapFile(path string) (*world.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := world.ReadMap(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// cityMark labels a city on the hex grid: 0-9, then a-z, then '*'.
func cityMark(c world.CityID) string {
	const marks = "0123456789abcdefghijklmnopqrstuvwxyz"
	if int(c) < len(marks) {
		return marks[c : c+1]
	}
	return "*"
}

// renderHexes draws the terrain rows with pointy-top offsets.
func renderHexes(th theme, layout *world.Layout) string {
	cities := make(map[world.HexCoord]world.CityID, len(layout.Sites))
	for _, s := range layout.Sites {
		cities[s.Coord] = s.City
	}

	radius := layout.Radius
	var b strings.Builder
	for r := -radius; r <= radius; r++ {
		b.WriteString(strings.Repeat(" ", abs(r)))
		for q := max(-radius, -r-radius); q <= min(radius, -r+radius); q++ {
			coord := world.HexCoord{Q: q, R: r}
			if c, ok := cities[coord]; ok {
				b.WriteString(th.City.Render(cityMark(c)))
			} else {
				t := layout.Terrain[coord]
				b.WriteString(th.Terrain[t].Render(terrainGlyphs[t]))
			}
			b.WriteByte(' ')
		}
		if r < radius {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderCities lists every city with its roads.
func renderCities(th theme, m *world.Map) string {
	var b strings.Builder
	for c := 0; c < m.NumCities(); c++ {
		city := world.CityID(c)
		fmt.Fprintf(&b, "%s %s", th.City.Render(fmt.Sprintf("%3d", c)), th.Label.Render(m.Name(city)))
		roads := m.RoadsFrom(city)
		if len(roads) == 0 {
			b.WriteString(th.Dim.Render("  (no roads)"))
		}
		for _, r := range roads {
			b.WriteString(th.Dim.Render(fmt.Sprintf("  -> %d (%d)", r.To, r.Length)))
		}
		if c < m.NumCities()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
