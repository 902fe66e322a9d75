package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sigescol/backend/internal/pkg/dberrors"
	"github.com/sigescol/backend/internal/pkg/logger"
)

// ITokenRepository defines the interface for the revoked token store
type ITokenRepository interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenRepository persists revoked token IDs so logout survives restarts.
// Rows past their expiry are dead weight and are purged periodically.
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Revoke records a token ID as revoked. Revoking the same token twice is
// not an error.
func (r *TokenRepository) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	sql, args, err := r.sb.Insert("revoked_tokens").
		Columns("jti", "user_id", "expires_at").
		Values(jti, userID, expiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error revoking token")
		return fmt.Errorf("error revoking token: %w", err)
	}

	return nil
}

// IsRevoked checks whether a token ID has been revoked
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("revoked_tokens").
		Where(squirrel.Eq{"jti": jti}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build token lookup query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Msg("Error checking token revocation")
		return false, fmt.Errorf("error checking token revocation: %w", err)
	}

	return true, nil
}

// DeleteExpired removes revocation rows whose tokens have expired anyway
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Delete("revoked_tokens").
		Where(squirrel.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build token cleanup query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error cleaning up revoked tokens")
		return 0, fmt.Errorf("error cleaning up revoked tokens: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}
