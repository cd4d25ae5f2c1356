package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"
)

func newTestReviewService() (*ReviewService, *fakeReviewRepo, *fakeRentalRepo, *fakeQuotaRepo, *txStats) {
	reviewRepo := newFakeReviewRepo()
	rentalRepo := newFakeRentalRepo()
	quotaRepo := newFakeQuotaRepo()
	stats := &txStats{}
	svc := NewReviewService(reviewRepo, rentalRepo, quotaRepo, newStubDB(stats))
	return svc, reviewRepo, rentalRepo, quotaRepo, stats
}

func seedRental(rentalRepo *fakeRentalRepo, id, owner string) {
	rentalRepo.rentals[id] = &model.RentalUnit{ID: id, Username: owner, Title: "Cabin"}
}

func validReview() SubmitReviewRequest {
	return SubmitReviewRequest{Rating: model.RatingGood, Description: "Solid stay"}
}

func TestSubmitReviewUnknownRental(t *testing.T) {
	svc, reviewRepo, _, quotaRepo, _ := newTestReviewService()

	_, err := svc.SubmitReview(context.Background(), "missing", "alice", validReview())
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if reviewRepo.existsCalls != 0 {
		t.Fatal("duplicate check must not run when the rental does not exist")
	}
	if quotaRepo.countOnCalls != 0 {
		t.Fatal("quota must not be consulted when the rental does not exist")
	}
}

func TestSubmitReviewSelfReview(t *testing.T) {
	svc, reviewRepo, rentalRepo, quotaRepo, _ := newTestReviewService()
	seedRental(rentalRepo, "rental-5", "bob")

	_, err := svc.SubmitReview(context.Background(), "rental-5", "bob", validReview())
	if !errors.Is(err, common.ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}
	if reviewRepo.count() != 0 {
		t.Fatal("self-review must not create a review row")
	}
	if reviewRepo.existsCalls != 0 {
		t.Fatal("duplicate check must not run for a self-review")
	}
	if quotaRepo.countOnCalls != 0 {
		t.Fatal("quota must not be consulted for a self-review")
	}
}

func TestSubmitReviewDuplicate(t *testing.T) {
	svc, reviewRepo, rentalRepo, quotaRepo, _ := newTestReviewService()
	seedRental(rentalRepo, "rental-1", "bob")
	ctx := context.Background()

	if _, err := svc.SubmitReview(ctx, "rental-1", "alice", validReview()); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err := svc.SubmitReview(ctx, "rental-1", "alice", validReview())
	if !errors.Is(err, common.ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
	if reviewRepo.count() != 1 {
		t.Fatalf("review count = %d, want 1", reviewRepo.count())
	}
	if got := quotaRepo.get("alice", model.KindReview, model.DayOf(time.Now())); got != 1 {
		t.Fatalf("a duplicate attempt must not consume a quota slot, counter = %d", got)
	}
}

func TestSubmitReviewQuotaPrecedesValidation(t *testing.T) {
	svc, _, rentalRepo, quotaRepo, _ := newTestReviewService()
	seedRental(rentalRepo, "rental-1", "bob")
	quotaRepo.set("alice", model.KindReview, model.DayOf(time.Now()), model.KindReview.DailyCap())

	// Rating is invalid too, but the quota violation comes first in the
	// check order, so that is the error surfaced.
	_, err := svc.SubmitReview(context.Background(), "rental-1", "alice",
		SubmitReviewRequest{Rating: "amazing", Description: ""})
	if !errors.Is(err, common.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestSubmitReviewRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		req  SubmitReviewRequest
	}{
		{"missing rating", SubmitReviewRequest{Description: "d"}},
		{"unknown rating", SubmitReviewRequest{Rating: "amazing", Description: "d"}},
		{"missing description", SubmitReviewRequest{Rating: model.RatingPoor}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, reviewRepo, rentalRepo, quotaRepo, _ := newTestReviewService()
			seedRental(rentalRepo, "rental-1", "bob")

			_, err := svc.SubmitReview(context.Background(), "rental-1", "alice", tc.req)
			if !errors.Is(err, common.ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
			if reviewRepo.count() != 0 {
				t.Fatal("invalid review must not create a review row")
			}
			if got := quotaRepo.get("alice", model.KindReview, model.DayOf(time.Now())); got != 0 {
				t.Fatalf("invalid review must not touch the counter, got %d", got)
			}
		})
	}
}

func TestSubmitReviewAccepted(t *testing.T) {
	svc, reviewRepo, rentalRepo, quotaRepo, stats := newTestReviewService()
	seedRental(rentalRepo, "rental-1", "bob")

	review, err := svc.SubmitReview(context.Background(), "rental-1", "alice", validReview())
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.Rating != model.RatingGood || review.Username != "alice" {
		t.Fatalf("unexpected review %+v", review)
	}
	if reviewRepo.count() != 1 {
		t.Fatalf("review count = %d, want 1", reviewRepo.count())
	}
	if got := quotaRepo.get("alice", model.KindReview, model.DayOf(time.Now())); got != 1 {
		t.Fatalf("counter = %d, want 1", got)
	}
	if stats.commits.Load() != 1 {
		t.Fatalf("commits = %d, want 1", stats.commits.Load())
	}
}

func TestSubmitReviewInsertFailureRollsBack(t *testing.T) {
	svc, reviewRepo, rentalRepo, _, stats := newTestReviewService()
	seedRental(rentalRepo, "rental-1", "bob")
	reviewRepo.createErr = errors.New("connection reset")

	_, err := svc.SubmitReview(context.Background(), "rental-1", "alice", validReview())
	if err == nil {
		t.Fatal("expected an error when the insert fails")
	}
	if stats.commits.Load() != 0 {
		t.Fatal("a failed insert must never commit the counter bump")
	}
	if stats.rollbacks.Load() != 1 {
		t.Fatalf("rollbacks = %d, want 1", stats.rollbacks.Load())
	}
}

func TestSubmitReviewConcurrentNeverExceedsCap(t *testing.T) {
	svc, reviewRepo, rentalRepo, quotaRepo, _ := newTestReviewService()
	ctx := context.Background()

	const attempts = 10
	for i := 0; i < attempts; i++ {
		seedRental(rentalRepo, fmt.Sprintf("rental-%d", i), "bob")
	}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SubmitReview(ctx, fmt.Sprintf("rental-%d", i), "alice", validReview())
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	accepted, denied := 0, 0
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, common.ErrQuotaExceeded):
			denied++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	reviewCap := model.KindReview.DailyCap()
	if accepted != reviewCap {
		t.Fatalf("accepted = %d, want %d", accepted, reviewCap)
	}
	if denied != attempts-reviewCap {
		t.Fatalf("denied = %d, want %d", denied, attempts-reviewCap)
	}
	if reviewRepo.count() != reviewCap {
		t.Fatalf("review count = %d, want %d", reviewRepo.count(), reviewCap)
	}
	if got := quotaRepo.get("alice", model.KindReview, model.DayOf(time.Now())); got != reviewCap {
		t.Fatalf("counter = %d, want %d", got, reviewCap)
	}
}

func TestListReviewsUnknownRental(t *testing.T) {
	svc, _, _, _, _ := newTestReviewService()

	_, err := svc.ListReviews(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
