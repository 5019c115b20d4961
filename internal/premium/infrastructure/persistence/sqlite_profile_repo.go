package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/novaplan/premium/internal/premium/domain"
)

// SQLiteProfileRepository implements ProfileStore with SQLite for local
// mode, where no remote profile service is configured.
type SQLiteProfileRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the local profile database with the usual
// pragmas. SQLite supports a single writer, so connections are capped.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// NewSQLiteProfileRepository creates a new repository.
func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

// Migrate creates the profiles table if it does not exist yet.
func (r *SQLiteProfileRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			is_premium INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

// SetPremium upserts the premium flag for the user's profile record,
// leaving any other columns untouched.
func (r *SQLiteProfileRepository) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error {
	now := time.Now().Format(time.RFC3339)
	query := `
		INSERT INTO profiles (user_id, is_premium, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			is_premium = excluded.is_premium,
			updated_at = excluded.updated_at
	`
	flag := 0
	if premium {
		flag = 1
	}
	_, err := r.db.ExecContext(ctx, query, userID.String(), flag, now, now)
	return err
}

// IsPremium reads the stored premium flag. Missing profiles read as false.
func (r *SQLiteProfileRepository) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT is_premium FROM profiles WHERE user_id = ?`
	var flag int
	if err := r.db.QueryRowContext(ctx, query, userID.String()).Scan(&flag); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return flag == 1, nil
}

var _ domain.ProfileStore = (*SQLiteProfileRepository)(nil)
