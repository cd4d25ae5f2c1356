package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ReviewRepository interface {
	Create(ctx context.Context, tx *sql.Tx, review *model.Review) error
	HasAuthorReviewed(ctx context.Context, rentalID, username string) (bool, error)
	ListByRental(ctx context.Context, rentalID string) ([]model.Review, error)
}

type pgReviewRepository struct {
	db *sql.DB
}

func NewPgReviewRepository(db *sql.DB) ReviewRepository {
	return &pgReviewRepository{db: db}
}

func (r *pgReviewRepository) Create(ctx context.Context, tx *sql.Tx, review *model.Review) error {
	query := `INSERT INTO reviews (id, rental_id, username, rating, description)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query,
		review.ID, review.RentalID, review.Username, review.Rating, review.Description)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The (rental_id, username) unique index is the durable
			// backstop behind the duplicate-review check.
			return fmt.Errorf("pgReviewRepository.Create: %w", common.ErrAlreadyReviewed)
		}
		return fmt.Errorf("pgReviewRepository.Create: %w", err)
	}
	return nil
}

func (r *pgReviewRepository) HasAuthorReviewed(ctx context.Context, rentalID, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE rental_id = $1 AND username = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, rentalID, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgReviewRepository.HasAuthorReviewed: %w", err)
	}
	return exists, nil
}

func (r *pgReviewRepository) ListByRental(ctx context.Context, rentalID string) ([]model.Review, error) {
	query := `SELECT r.id, r.rental_id, r.username, r.rating, r.description, r.created_at,
	                 u.first_name, u.last_name
	          FROM reviews r
	          JOIN users u ON r.username = u.username
	          WHERE r.rental_id = $1
	          ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, fmt.Errorf("pgReviewRepository.ListByRental: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var review model.Review
		if err := rows.Scan(
			&review.ID, &review.RentalID, &review.Username, &review.Rating,
			&review.Description, &review.CreatedAt,
			&review.AuthorFirstName, &review.AuthorLastName,
		); err != nil {
			return nil, fmt.Errorf("pgReviewRepository.ListByRental scan: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgReviewRepository.ListByRental rows: %w", err)
	}
	return reviews, nil
}
