package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the counters in a single-table Postgres schema, for
// deployments that already run Postgres and don't want a Redis instance.
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig mirrors the usual connection parameters.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

const countersSchema = `
CREATE TABLE IF NOT EXISTS usage_counters (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

func NewPostgresStore(config PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	if _, err := db.Exec(countersSchema); err != nil {
		return nil, fmt.Errorf("error initializing counters schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM usage_counters WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error reading counter %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_counters (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return fmt.Errorf("error writing counter %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Incr(ctx context.Context, key string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO usage_counters (key, value) VALUES ($1, '1')
		ON CONFLICT (key) DO UPDATE SET value = ((usage_counters.value)::bigint + 1)::text
		RETURNING (value)::bigint`, key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("error incrementing counter %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
