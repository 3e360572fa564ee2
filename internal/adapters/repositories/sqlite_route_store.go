package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
)

// SQLite-backed implementation of the RouteStore port. The route is one
// opaque JSON snapshot in a single-row table; saving overwrites it.
type SqliteRouteStore struct{ DB *sql.DB }

func NewSqliteRouteStore(db *sql.DB) *SqliteRouteStore {
	return &SqliteRouteStore{DB: db}
}

// Initialize the SQLite schema for snapshot storage.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS route_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("init schema: create route_snapshot table: %w", err)
	}
	return nil
}

func (s *SqliteRouteStore) Save(ctx context.Context, route domain.Route) (err error) {
	defer obs.Time(ctx, "route_store.sqlite.Save")(&err)

	if s.DB == nil {
		return errors.New("sqlite route store: DB is nil")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("save route: %w", err)
	}

	query := `
	INSERT INTO route_snapshot (id, payload)
	VALUES (1, ?)
	ON CONFLICT (id) DO UPDATE SET payload = excluded.payload;
	`
	if _, err := s.DB.ExecContext(ctx, query, string(payload)); err != nil {
		return fmt.Errorf("save route: upsert snapshot: %w", err)
	}
	return nil
}

func (s *SqliteRouteStore) Load(ctx context.Context) (_ domain.Route, err error) {
	defer obs.Time(ctx, "route_store.sqlite.Load")(&err)

	if s.DB == nil {
		return domain.Route{}, errors.New("sqlite route store: DB is nil")
	}

	var payload string
	row := s.DB.QueryRowContext(ctx, `SELECT payload FROM route_snapshot WHERE id = 1;`)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Route{}, ports.ErrNoSavedRoute
		}
		return domain.Route{}, fmt.Errorf("load route: query snapshot: %w", err)
	}

	route, err := decodeRoute([]byte(payload))
	if err != nil {
		// A snapshot that no longer parses would fail every load;
		// clear it so the next attempt starts clean.
		if clearErr := s.Clear(ctx); clearErr != nil {
			return domain.Route{}, fmt.Errorf("load route: %w (clear also failed: %v)", err, clearErr)
		}
		return domain.Route{}, fmt.Errorf("load route: corrupt snapshot cleared: %w", err)
	}
	return route, nil
}

func (s *SqliteRouteStore) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, "route_store.sqlite.Clear")(&err)

	if s.DB == nil {
		return errors.New("sqlite route store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_snapshot WHERE id = 1;`); err != nil {
		return fmt.Errorf("clear route: delete snapshot: %w", err)
	}
	return nil
}
