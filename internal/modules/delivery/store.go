// README: Delivery store backed by PostgreSQL.
package delivery

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medidrop/internal/modules/eta"
	"medidrop/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const selectColumns = `
	id, request_text, area, latitude, longitude, distance_km, priority,
	drone_eta, road_eta, recommended_method, weather, traffic,
	road_eta_source, weather_fallback, status, progress, created_at`

func (s *Store) Create(ctx context.Context, d *Delivery) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO deliveries (
			id, request_text, area, latitude, longitude, distance_km, priority,
			drone_eta, road_eta, recommended_method, weather, traffic,
			road_eta_source, weather_fallback, status, progress, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17
		)`,
		string(d.ID), d.RequestText, d.Area, d.Coordinates.Lat, d.Coordinates.Lng, d.DistanceKm, d.Priority,
		d.DroneETA, d.RoadETA, string(d.RecommendedMethod), string(d.Weather), string(d.Traffic),
		string(d.RoadETASource), d.WeatherFallback, string(d.Status), d.Progress, d.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Delivery, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM deliveries WHERE id = $1`, string(id))
	d, err := scanDelivery(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) List(ctx context.Context) ([]Delivery, error) {
	rows, err := s.db.Query(ctx, `SELECT `+selectColumns+` FROM deliveries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// UpdateStatus moves a delivery from one status to another. It reports false
// when the row was no longer in the from status.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, progress int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE deliveries
		SET status = $1, progress = $2
		WHERE id = $3 AND status = $4`,
		string(to), progress, string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanDelivery(row pgx.Row) (*Delivery, error) {
	var d Delivery
	var method, weather, traffic, source, status string
	err := row.Scan(
		&d.ID, &d.RequestText, &d.Area, &d.Coordinates.Lat, &d.Coordinates.Lng, &d.DistanceKm, &d.Priority,
		&d.DroneETA, &d.RoadETA, &method, &weather, &traffic,
		&source, &d.WeatherFallback, &status, &d.Progress, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.RecommendedMethod = eta.Method(method)
	d.Weather = eta.WeatherState(weather)
	d.Traffic = eta.TrafficLevel(traffic)
	d.RoadETASource = RoadETASource(source)
	d.Status = Status(status)
	return &d, nil
}
