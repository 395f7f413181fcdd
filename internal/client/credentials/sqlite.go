package credentials

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/foliotrack/folio/internal/client/migrations"
	"github.com/foliotrack/folio/internal/dbx"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// SQLiteStore persists the credential pair in a local sqlite database so a
// session survives process restarts. Both tokens are written in a single
// transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenDatabase opens the sqlite database at dsn and applies the embedded
// migrations. The caller owns the returned handle.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate credentials db: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Save(ctx context.Context, c Credential) error {
	if c.AccessToken == "" || c.RefreshToken == "" {
		return ErrIncompletePair
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, c.AccessToken); err != nil {
			return err
		}
		return set(ctx, tx, keyRefreshToken, c.RefreshToken)
	})
}

// Load reads both keys in a single statement so a rotation committing
// concurrently can never be observed as a mixed pair.
func (s *SQLiteStore) Load(ctx context.Context) (*Credential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM credentials WHERE key IN (?, ?)`,
		keyAccessToken, keyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	defer rows.Close()

	var c Credential
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		switch key {
		case keyAccessToken:
			c.AccessToken = value
		case keyRefreshToken:
			c.RefreshToken = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if c.AccessToken == "" && c.RefreshToken == "" {
		return nil, nil
	}
	return &c, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}
