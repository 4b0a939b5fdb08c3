package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps profiles in the profile_storage table
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetItem retrieves a value
func (ps *PostgresStore) GetItem(ctx context.Context, profileID, key string) (string, bool, error) {
	if profileID == "" {
		return "", false, ErrEmptyProfile
	}
	var value string
	err := ps.db.QueryRowContext(ctx,
		`SELECT value FROM profile_storage WHERE profile_id = $1 AND key = $2`,
		profileID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get profile item: %w", err)
	}
	return value, true, nil
}

// SetItem upserts a value
func (ps *PostgresStore) SetItem(ctx context.Context, profileID, key, value string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO profile_storage (profile_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (profile_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, profileID, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("set profile item: %w", err)
	}
	return nil
}

// RemoveItem deletes a value
func (ps *PostgresStore) RemoveItem(ctx context.Context, profileID, key string) error {
	if profileID == "" {
		return ErrEmptyProfile
	}
	_, err := ps.db.ExecContext(ctx,
		`DELETE FROM profile_storage WHERE profile_id = $1 AND key = $2`,
		profileID, key,
	)
	if err != nil {
		return fmt.Errorf("remove profile item: %w", err)
	}
	return nil
}

// PurgeBefore deletes values not written since cutoff and reports how many
// rows went away.
func (ps *PostgresStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM profile_storage WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge profile storage: %w", err)
	}
	return res.RowsAffected()
}

// ConnectPostgres opens and pings a connection pool
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate applies the embedded schema migrations
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
