package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// undefinedTable is the Postgres SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// PostgresStationStore keeps the station list in the service_stations table.
type PostgresStationStore struct {
	db *sql.DB
}

func NewPostgresStationStore(db *sql.DB) *PostgresStationStore {
	return &PostgresStationStore{db: db}
}

// OpenPostgres opens a pgx-backed handle and waits until the server answers.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const (
		pingTimeout    = 5 * time.Second
		maxWait        = 30 * time.Second
		initialBackoff = 500 * time.Millisecond
		maxBackoff     = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		log.Debug().Err(lastErr).Dur("backoff", backoff).Msg("Database not ready, retrying")
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}

func (s *PostgresStationStore) ReadAll(ctx context.Context) ([]models.Station, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, latitude, longitude, distance_miles,
		       is_open_24_hours, has_convenience_store, has_hot_food,
		       accepts_bp_fuel_cards, image_url
		FROM service_stations
		ORDER BY position
	`)
	if err != nil {
		if isUndefinedTable(err) {
			log.Warn().Msg("service_stations table missing, treating cache as empty")
			return []models.Station{}, nil
		}
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		var st models.Station
		var image sql.NullString
		if err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Address,
			&st.Latitude,
			&st.Longitude,
			&st.DistanceMiles,
			&st.IsOpen24Hours,
			&st.HasConvenienceStore,
			&st.HasHotFood,
			&st.AcceptsBpFuelCards,
			&image,
		); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		if image.Valid {
			url := image.String
			st.ImageURL = &url
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stations: %w", err)
	}

	return stations, nil
}

// ReplaceAll deletes and reinserts inside one transaction, so concurrent
// readers see either the old rows or the new ones.
func (s *PostgresStationStore) ReplaceAll(ctx context.Context, stations []models.Station) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM service_stations`); err != nil {
		return fmt.Errorf("delete stations: %w", err)
	}

	for i, st := range stations {
		var image sql.NullString
		if st.ImageURL != nil {
			image = sql.NullString{String: *st.ImageURL, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO service_stations (
				id, position, name, address, latitude, longitude, distance_miles,
				is_open_24_hours, has_convenience_store, has_hot_food,
				accepts_bp_fuel_cards, image_url
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				distance_miles = EXCLUDED.distance_miles,
				is_open_24_hours = EXCLUDED.is_open_24_hours,
				has_convenience_store = EXCLUDED.has_convenience_store,
				has_hot_food = EXCLUDED.has_hot_food,
				accepts_bp_fuel_cards = EXCLUDED.accepts_bp_fuel_cards,
				image_url = EXCLUDED.image_url
		`,
			st.ID, i, st.Name, st.Address, st.Latitude, st.Longitude, st.DistanceMiles,
			st.IsOpen24Hours, st.HasConvenienceStore, st.HasHotFood,
			st.AcceptsBpFuelCards, image,
		); err != nil {
			return fmt.Errorf("insert station %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	tx = nil

	log.Debug().Int("station_count", len(stations)).Msg("Replaced stations in Postgres")
	return nil
}

func (s *PostgresStationStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM service_stations`); err != nil {
		return fmt.Errorf("delete stations: %w", err)
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}
