package appointments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSource reads the appointments table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// Connect creates a connection pool to PostgreSQL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresSource wraps an open pool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Appointments implements Source.
func (s *PostgresSource) Appointments(ctx context.Context, taxpayerID string) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, title, advisor, starts_at, location, COALESCE(notes, '')
		FROM appointments
		WHERE taxpayer_id = $1
		ORDER BY starts_at
	`, taxpayerID)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.Title, &a.Advisor, &a.StartsAt, &a.Location, &a.Notes); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}
	return result, nil
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}
