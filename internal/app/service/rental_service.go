package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
)

// ListingCache is the read cache for the public browse/search pages.
// Implementations must degrade to a miss on any cache failure.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	Invalidate(ctx context.Context)
}

type RentalService struct {
	rentalRepo repository.RentalRepository
	quotaRepo  repository.QuotaRepository
	cache      ListingCache
	db         *sql.DB // For transactions
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	quotaRepo repository.QuotaRepository,
	cache ListingCache,
	db *sql.DB,
) *RentalService {
	return &RentalService{
		rentalRepo: rentalRepo,
		quotaRepo:  quotaRepo,
		cache:      cache,
		db:         db,
	}
}

type SubmitPostingRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Features    string  `json:"features"`
	Price       float64 `json:"price"`
}

// SubmitPosting validates the posting, then applies the daily-counter bump
// and the rental insert as one transaction. The counter upsert itself
// rejects past the cap, so the quota check and the increment cannot race
// apart, and a failed insert rolls the bump back.
func (s *RentalService) SubmitPosting(ctx context.Context, username string, req SubmitPostingRequest) (*model.RentalUnit, error) {
	if req.Title == "" || req.Description == "" || req.Features == "" {
		return nil, common.Errorf("title, description and features are required: %w", common.ErrBadRequest)
	}
	if req.Price <= 0 {
		return nil, common.Errorf("price must be a positive number: %w", common.ErrBadRequest)
	}

	id := uuid.NewString()
	rental := &model.RentalUnit{
		ID:          id,
		Username:    username,
		Slug:        slug.Make(req.Title) + "-" + id[:8],
		Title:       req.Title,
		Description: req.Description,
		Features:    req.Features,
		Price:       req.Price,
	}

	day := model.DayOf(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := s.quotaRepo.IncrementWithinCap(ctx, tx, username, model.KindPosting, day, model.KindPosting.DailyCap())
	if err != nil {
		if errors.Is(err, common.ErrQuotaExceeded) {
			return nil, common.Errorf("daily posting limit reached (%d per day): %w", model.KindPosting.DailyCap(), common.ErrQuotaExceeded)
		}
		return nil, common.Errorf("failed to record posting against quota: %w", err)
	}

	if err := s.rentalRepo.Create(ctx, tx, rental); err != nil {
		return nil, common.Errorf("failed to create rental unit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.cache.Invalidate(ctx)

	log.Info().Str("rental_id", rental.ID).Str("username", username).
		Int("postings_today", count).Msg("rental unit posted")
	rental.CreatedAt = time.Now()
	return rental, nil
}

type ListRentalsResponse struct {
	Rentals  []model.RentalUnit `json:"rentals"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// ListRentals serves the public browse/search page, read-through from the
// listing cache.
func (s *RentalService) ListRentals(ctx context.Context, feature string, page, pageSize int) (*ListRentalsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	cacheKey := fmt.Sprintf("feature=%s:page=%d:size=%d", feature, page, pageSize)
	if payload, ok := s.cache.Get(ctx, cacheKey); ok {
		resp := &ListRentalsResponse{}
		if err := json.Unmarshal(payload, resp); err == nil {
			return resp, nil
		}
	}

	rentals, total, err := s.rentalRepo.List(ctx, feature, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	resp := &ListRentalsResponse{Rentals: rentals, Total: total, Page: page, PageSize: pageSize}
	if payload, err := json.Marshal(resp); err == nil {
		s.cache.Set(ctx, cacheKey, payload)
	}
	return resp, nil
}

func (s *RentalService) GetRentalBySlug(ctx context.Context, rentalSlug string) (*model.RentalUnit, error) {
	return s.rentalRepo.FindBySlug(ctx, rentalSlug)
}

func (s *RentalService) ListMyRentals(ctx context.Context, username string) ([]model.RentalUnit, error) {
	return s.rentalRepo.ListByOwner(ctx, username)
}
