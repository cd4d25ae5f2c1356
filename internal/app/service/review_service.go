package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	rentalRepo repository.RentalRepository
	quotaRepo  repository.QuotaRepository
	db         *sql.DB // For transactions
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	rentalRepo repository.RentalRepository,
	quotaRepo repository.QuotaRepository,
	db *sql.DB,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		rentalRepo: rentalRepo,
		quotaRepo:  quotaRepo,
		db:         db,
	}
}

type SubmitReviewRequest struct {
	Rating      model.Rating `json:"rating"`
	Description string       `json:"description"`
}

// SubmitReview runs the eligibility checks in a fixed, short-circuiting
// order: rental existence, self-review, duplicate review, daily quota,
// then input validation. The surfaced error is always the first violated
// rule, and nothing is written until every check has passed.
func (s *ReviewService) SubmitReview(ctx context.Context, rentalID, username string, req SubmitReviewRequest) (*model.Review, error) {
	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("rental unit not found: %w", common.ErrNotFound)
		}
		return nil, common.Errorf("failed to look up rental unit: %w", err)
	}

	if rental.Username == username {
		return nil, common.ErrSelfReview
	}

	reviewed, err := s.reviewRepo.HasAuthorReviewed(ctx, rentalID, username)
	if err != nil {
		return nil, common.Errorf("failed to check existing review: %w", err)
	}
	if reviewed {
		return nil, common.ErrAlreadyReviewed
	}

	day := model.DayOf(time.Now())
	reviewCap := model.KindReview.DailyCap()

	// Read-only quota probe so a capped user sees the quota error ahead of
	// any validation complaint. The authoritative check is the conditional
	// upsert inside the transaction below.
	count, err := s.quotaRepo.CountOn(ctx, username, model.KindReview, day)
	if err != nil {
		return nil, common.Errorf("failed to read review quota: %w", err)
	}
	if count >= reviewCap {
		return nil, common.Errorf("daily review limit reached (%d per day): %w", reviewCap, common.ErrQuotaExceeded)
	}

	if !req.Rating.Valid() {
		return nil, common.Errorf("rating must be one of excellent, good, fair, poor: %w", common.ErrBadRequest)
	}
	if req.Description == "" {
		return nil, common.Errorf("review description is required: %w", common.ErrBadRequest)
	}

	review := &model.Review{
		ID:          uuid.NewString(),
		RentalID:    rentalID,
		Username:    username,
		Rating:      req.Rating,
		Description: req.Description,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.quotaRepo.IncrementWithinCap(ctx, tx, username, model.KindReview, day, reviewCap); err != nil {
		if errors.Is(err, common.ErrQuotaExceeded) {
			return nil, common.Errorf("daily review limit reached (%d per day): %w", reviewCap, common.ErrQuotaExceeded)
		}
		return nil, common.Errorf("failed to record review against quota: %w", err)
	}

	if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
		return nil, common.Errorf("failed to create review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Str("review_id", review.ID).Str("rental_id", rentalID).
		Str("username", username).Msg("review submitted")
	review.CreatedAt = time.Now()
	return review, nil
}

// ListReviews returns a rental's reviews newest first, with author names
// joined in. A missing rental is a 404, same as the detail page.
func (s *ReviewService) ListReviews(ctx context.Context, rentalID string) ([]model.Review, error) {
	if _, err := s.rentalRepo.FindByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByRental(ctx, rentalID)
}
