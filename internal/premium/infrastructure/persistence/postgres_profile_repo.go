package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/novaplan/premium/internal/premium/domain"
)

// PostgresProfileRepository implements ProfileStore with PostgreSQL.
// SetPremium upserts only the is_premium column so other profile fields
// keep their values (merge semantics).
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a new repository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// SetPremium upserts the premium flag for the user's profile record.
func (r *PostgresProfileRepository) SetPremium(ctx context.Context, userID uuid.UUID, premium bool) error {
	query := `
		INSERT INTO profiles (user_id, is_premium, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			is_premium = EXCLUDED.is_premium,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, userID, premium)
	return err
}

// IsPremium reads the stored premium flag. Missing profiles read as false.
func (r *PostgresProfileRepository) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT is_premium FROM profiles WHERE user_id = $1`
	var premium bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&premium); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return premium, nil
}

var _ domain.ProfileStore = (*PostgresProfileRepository)(nil)
