// Package persistence provides SQLite-based storage for maps and run logs.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/citychase/internal/engine"
	"github.com/talgya/citychase/internal/world"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrEmptyName   = errors.New("map name must not be empty")
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		num_cities INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cities (
		map_id INTEGER NOT NULL,
		city INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (map_id, city)
	);

	CREATE TABLE IF NOT EXISTS roads (
		map_id INTEGER NOT NULL,
		city_a INTEGER NOT NULL,
		city_b INTEGER NOT NULL,
		length INTEGER NOT NULL,
		PRIMARY KEY (map_id, city_a, city_b)
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		map_name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		turns INTEGER NOT NULL,
		catcher TEXT NOT NULL,
		started_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		agent TEXT NOT NULL,
		from_city INTEGER NOT NULL,
		to_city INTEGER NOT NULL,
		cost INTEGER NOT NULL,
		kind TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// MapInfo summarises a stored map.
type MapInfo struct {
	Name      string
	Cities    int
	Roads     int
	CreatedAt time.Time
}

// SaveMap stores m under name, replacing any map already stored there.
func (db *DB) SaveMap(name string, m *world.Map) error {
	if name == "" {
		return ErrEmptyName
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteMap(tx, name); err != nil {
		return fmt.Errorf("replace map %q: %w", name, err)
	}

	res, err := tx.Exec("INSERT INTO maps (name, num_cities, created_at) VALUES (?, ?, ?)",
		name, m.NumCities(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert map %q: %w", name, err)
	}
	mapID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for c := 0; c < m.NumCities(); c++ {
		_, err := tx.Exec("INSERT INTO cities (map_id, city, name) VALUES (?, ?, ?)",
			mapID, c, m.Name(world.CityID(c)))
		if err != nil {
			return fmt.Errorf("insert city %d: %w", c, err)
		}
	}

	stmt, err := tx.Preparex("INSERT INTO roads (map_id, city_a, city_b, length) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range m.Roads() {
		if _, err := stmt.Exec(mapID, r.From, r.To, r.Length); err != nil {
			return fmt.Errorf("insert road %d-%d: %w", r.From, r.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("map saved", "name", name, "cities", m.NumCities(), "roads", m.NumRoads())
	return nil
}

func deleteMap(tx *sqlx.Tx, name string) error {
	var id int64
	err := tx.Get(&id, "SELECT id FROM maps WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, q := range []string{
		"DELETE FROM roads WHERE map_id = ?",
		"DELETE FROM cities WHERE map_id = ?",
		"DELETE FROM maps WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return err
		}
	}
	return nil
}

// LoadMap rebuilds the map stored under name.
func (db *DB) LoadMap(name string) (*world.Map, error) {
	var row struct {
		ID        int64 `db:"id"`
		NumCities int   `db:"num_cities"`
	}
	err := db.conn.Get(&row, "SELECT id, num_cities FROM maps WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrMapNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load map %q: %w", name, err)
	}

	m, err := world.NewMap(row.NumCities)
	if err != nil {
		return nil, err
	}

	var cities []struct {
		City world.CityID `db:"city"`
		Name string       `db:"name"`
	}
	if err := db.conn.Select(&cities, "SELECT city, name FROM cities WHERE map_id = ? ORDER BY city", row.ID); err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}
	for _, c := range cities {
		if c.Name == world.UnnamedCity {
			continue
		}
		if err := m.SetName(c.City, c.Name); err != nil {
			return nil, err
		}
	}

	var roads []world.Road
	if err := db.conn.Select(&roads,
		"SELECT city_a AS `from`, city_b AS `to`, length FROM roads WHERE map_id = ? ORDER BY city_a, city_b",
		row.ID,
	); err != nil {
		return nil, fmt.Errorf("load roads: %w", err)
	}
	for _, r := range roads {
		if _, err := m.InsertRoad(r.From, r.To, r.Length); err != nil {
			return nil, fmt.Errorf("road %d-%d: %w", r.From, r.To, err)
		}
	}
	return m, nil
}

// ListMaps returns every stored map, newest first.
func (db *DB) ListMaps() ([]MapInfo, error) {
	var rows []struct {
		Name      string `db:"name"`
		NumCities int    `db:"num_cities"`
		NumRoads  int    `db:"num_roads"`
		CreatedAt int64  `db:"created_at"`
	}
	err := db.conn.Select(&rows, `
		SELECT m.name, m.num_cities, m.created_at,
			(SELECT COUNT(*) FROM roads r WHERE r.map_id = m.id) AS num_roads
		FROM maps m ORDER BY m.created_at DESC, m.id DESC`)
	if err != nil {
		return nil, err
	}
	maps := make([]MapInfo, 0, len(rows))
	for _, r := range rows {
		maps = append(maps, MapInfo{
			Name:      r.Name,
			Cities:    r.NumCities,
			Roads:     r.NumRoads,
			CreatedAt: time.Unix(r.CreatedAt, 0),
		})
	}
	return maps, nil
}

// RunRecord is one finished chase.
type RunRecord struct {
	ID        uuid.UUID // Assigned by SaveRun when zero
	MapName   string
	Seed      int64
	Result    engine.Result
	StartedAt time.Time
}

// SaveRun stores a run and its events in one transaction.
func (db *DB) SaveRun(rec RunRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, map_name, seed, outcome, turns, catcher, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.MapName, rec.Seed, rec.Result.Outcome.String(),
		int64(rec.Result.Turns), rec.Result.Catcher, rec.StartedAt.Unix(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for _, e := range rec.Result.Events {
		_, err := tx.Exec(`INSERT INTO events (run_id, turn, agent, from_city, to_city, cost, kind)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, int64(e.Turn), e.Agent, e.From, e.To, e.Cost, e.Kind,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	slog.Debug("run saved", "id", rec.ID, "events", len(rec.Result.Events))
	return rec.ID, nil
}

// RunSummary is a stored run without its events.
type RunSummary struct {
	ID      uuid.UUID `db:"id"`
	MapName string    `db:"map_name"`
	Seed    int64     `db:"seed"`
	Outcome string    `db:"outcome"`
	Turns   uint64    `db:"turns"`
	Catcher string    `db:"catcher"`
	Started int64     `db:"started_at"`
}

// RecentRuns returns the latest runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	var runs []RunSummary
	err := db.conn.Select(&runs,
		"SELECT id, map_name, seed, outcome, turns, catcher, started_at FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// RecentEvents returns the last limit events of a run, newest first.
func (db *DB) RecentEvents(runID uuid.UUID, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT turn, agent, from_city, to_city, cost, kind FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return events, err
}
