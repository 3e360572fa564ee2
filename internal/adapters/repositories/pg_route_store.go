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

// Postgres-backed implementation of the RouteStore port, for server
// deployments where the snapshot must outlive the host. Same single-row
// contract as the SQLite store.
type PgRouteStore struct{ DB *sql.DB }

func NewPgRouteStore(db *sql.DB) *PgRouteStore {
	return &PgRouteStore{DB: db}
}

// Initialize the Postgres schema for snapshot storage (run by dbtool).
func InitPgSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	query := `
	CREATE TABLE IF NOT EXISTS route_snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("init schema: create route_snapshot table: %w", err)
	}
	return nil
}

func (s *PgRouteStore) Save(ctx context.Context, route domain.Route) (err error) {
	defer obs.Time(ctx, "route_store.pg.Save")(&err)

	if s.DB == nil {
		return errors.New("pg route store: DB is nil")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("save route: %w", err)
	}

	query := `
	INSERT INTO route_snapshot (id, payload, updated_at)
	VALUES (1, $1, now())
	ON CONFLICT (id) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = now();
	`
	if _, err := s.DB.ExecContext(ctx, query, string(payload)); err != nil {
		return fmt.Errorf("save route: upsert snapshot: %w", err)
	}
	return nil
}

func (s *PgRouteStore) Load(ctx context.Context) (_ domain.Route, err error) {
	defer obs.Time(ctx, "route_store.pg.Load")(&err)

	if s.DB == nil {
		return domain.Route{}, errors.New("pg route store: DB is nil")
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
		if clearErr := s.Clear(ctx); clearErr != nil {
			return domain.Route{}, fmt.Errorf("load route: %w (clear also failed: %v)", err, clearErr)
		}
		return domain.Route{}, fmt.Errorf("load route: corrupt snapshot cleared: %w", err)
	}
	return route, nil
}

func (s *PgRouteStore) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, "route_store.pg.Clear")(&err)

	if s.DB == nil {
		return errors.New("pg route store: DB is nil")
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM route_snapshot WHERE id = 1;`); err != nil {
		return fmt.Errorf("clear route: delete snapshot: %w", err)
	}
	return nil
}
