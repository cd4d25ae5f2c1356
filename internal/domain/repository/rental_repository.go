package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type RentalRepository interface {
	Create(ctx context.Context, tx *sql.Tx, rental *model.RentalUnit) error
	FindByID(ctx context.Context, id string) (*model.RentalUnit, error)
	FindBySlug(ctx context.Context, slug string) (*model.RentalUnit, error)
	List(ctx context.Context, feature string, limit, offset int) ([]model.RentalUnit, int, error)
	ListByOwner(ctx context.Context, username string) ([]model.RentalUnit, error)
}

type pgRentalRepository struct {
	db *sql.DB
}

func NewPgRentalRepository(db *sql.DB) RentalRepository {
	return &pgRentalRepository{db: db}
}

const rentalColumns = `id, username, slug, title, description, features, price, created_at`

func (r *pgRentalRepository) Create(ctx context.Context, tx *sql.Tx, rental *model.RentalUnit) error {
	query := `INSERT INTO rental_units (id, username, slug, title, description, features, price)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.ExecContext(ctx, query,
		rental.ID, rental.Username, rental.Slug, rental.Title, rental.Description, rental.Features, rental.Price)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("rental unit with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgRentalRepository.Create: %w", err)
	}
	return nil
}

func (r *pgRentalRepository) FindByID(ctx context.Context, id string) (*model.RentalUnit, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_units WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgRentalRepository) FindBySlug(ctx context.Context, slug string) (*model.RentalUnit, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_units WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug), "FindBySlug")
}

func (r *pgRentalRepository) scanOne(row *sql.Row, caller string) (*model.RentalUnit, error) {
	rental := &model.RentalUnit{}
	err := row.Scan(
		&rental.ID, &rental.Username, &rental.Slug, &rental.Title,
		&rental.Description, &rental.Features, &rental.Price, &rental.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgRentalRepository.%s: %w", caller, err)
	}
	return rental, nil
}

// List returns a page of listings plus the total match count, optionally
// filtered by a case-insensitive substring of the features text.
func (r *pgRentalRepository) List(ctx context.Context, feature string, limit, offset int) ([]model.RentalUnit, int, error) {
	var baseQuery strings.Builder
	baseQuery.WriteString(`SELECT ` + rentalColumns + ` FROM rental_units`)

	var countQuery strings.Builder
	countQuery.WriteString(`SELECT COUNT(*) FROM rental_units`)

	var args []interface{}
	argID := 1

	if feature != "" {
		whereClause := fmt.Sprintf(" WHERE features ILIKE $%d", argID)
		baseQuery.WriteString(whereClause)
		countQuery.WriteString(whereClause)
		args = append(args, "%"+feature+"%")
		argID++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgRentalRepository.List count: %w", err)
	}

	baseQuery.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgRentalRepository.List query: %w", err)
	}
	defer rows.Close()

	rentals := []model.RentalUnit{}
	for rows.Next() {
		var rental model.RentalUnit
		if err := rows.Scan(
			&rental.ID, &rental.Username, &rental.Slug, &rental.Title,
			&rental.Description, &rental.Features, &rental.Price, &rental.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("pgRentalRepository.List scan: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgRentalRepository.List rows: %w", err)
	}
	return rentals, total, nil
}

func (r *pgRentalRepository) ListByOwner(ctx context.Context, username string) ([]model.RentalUnit, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_units WHERE username = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("pgRentalRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	rentals := []model.RentalUnit{}
	for rows.Next() {
		var rental model.RentalUnit
		if err := rows.Scan(
			&rental.ID, &rental.Username, &rental.Slug, &rental.Title,
			&rental.Description, &rental.Features, &rental.Price, &rental.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgRentalRepository.ListByOwner scan: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRentalRepository.ListByOwner rows: %w", err)
	}
	return rentals, nil
}
