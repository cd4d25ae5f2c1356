package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"
)

// QuotaRepository is the daily-quota ledger. The check and the increment
// are one statement: two concurrent requests holding the same stale count
// can never both get past the cap.
type QuotaRepository interface {
	// IncrementWithinCap bumps the (username, kind, day) counter if it is
	// below cap and returns the new count. Returns ErrQuotaExceeded
	// without touching the row when the cap is already met. Runs inside
	// the caller's transaction so a failed resource insert rolls the
	// bump back.
	IncrementWithinCap(ctx context.Context, tx *sql.Tx, username string, kind model.ActionKind, day string, cap int) (int, error)

	// CountOn reads the counter for a day; absent rows count as zero.
	CountOn(ctx context.Context, username string, kind model.ActionKind, day string) (int, error)
}

type pgQuotaRepository struct {
	db *sql.DB
}

func NewPgQuotaRepository(db *sql.DB) QuotaRepository {
	return &pgQuotaRepository{db: db}
}

func (r *pgQuotaRepository) IncrementWithinCap(ctx context.Context, tx *sql.Tx, username string, kind model.ActionKind, day string, cap int) (int, error) {
	// Conditional upsert: the insert takes the first slot of the day, the
	// conflict branch bumps an existing row only while below cap. No row
	// returned means the cap is met.
	query := `INSERT INTO daily_action_counts (username, action_kind, action_date, count)
	          VALUES ($1, $2, $3, 1)
	          ON CONFLICT (username, action_kind, action_date)
	          DO UPDATE SET count = daily_action_counts.count + 1
	          WHERE daily_action_counts.count < $4
	          RETURNING count`

	var count int
	err := tx.QueryRowContext(ctx, query, username, kind, day, cap).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrQuotaExceeded
		}
		return 0, fmt.Errorf("pgQuotaRepository.IncrementWithinCap: %w", err)
	}
	return count, nil
}

func (r *pgQuotaRepository) CountOn(ctx context.Context, username string, kind model.ActionKind, day string) (int, error) {
	query := `SELECT count FROM daily_action_counts
	          WHERE username = $1 AND action_kind = $2 AND action_date = $3`
	var count int
	err := r.db.QueryRowContext(ctx, query, username, kind, day).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("pgQuotaRepository.CountOn: %w", err)
	}
	return count, nil
}
