package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"
)

type fakeQuotaRepo struct {
	mu           sync.Mutex
	counts       map[string]int
	incErr       error // forced error from IncrementWithinCap
	countOnCalls int
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{counts: map[string]int{}}
}

func quotaKey(username string, kind model.ActionKind, day string) string {
	return fmt.Sprintf("%s|%s|%s", username, kind, day)
}

func (f *fakeQuotaRepo) IncrementWithinCap(_ context.Context, _ *sql.Tx, username string, kind model.ActionKind, day string, cap int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incErr != nil {
		return 0, f.incErr
	}
	key := quotaKey(username, kind, day)
	if f.counts[key] >= cap {
		return 0, common.ErrQuotaExceeded
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeQuotaRepo) CountOn(_ context.Context, username string, kind model.ActionKind, day string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countOnCalls++
	return f.counts[quotaKey(username, kind, day)], nil
}

func (f *fakeQuotaRepo) set(username string, kind model.ActionKind, day string, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[quotaKey(username, kind, day)] = count
}

func (f *fakeQuotaRepo) get(username string, kind model.ActionKind, day string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[quotaKey(username, kind, day)]
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by username
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email || existing.Phone == user.Phone {
			return common.ErrConflict
		}
	}
	stored := *user
	f.users[user.Username] = &stored
	return nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return f.findBy(func(u *model.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return f.findBy(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	return f.findBy(func(u *model.User) bool { return u.Phone == phone })
}

func (f *fakeUserRepo) findBy(match func(*model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if match(user) {
			found := *user
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeRentalRepo struct {
	mu        sync.Mutex
	rentals   map[string]*model.RentalUnit
	createErr error
	findCalls int
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{rentals: map[string]*model.RentalUnit{}}
}

func (f *fakeRentalRepo) Create(_ context.Context, _ *sql.Tx, rental *model.RentalUnit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	stored := *rental
	f.rentals[rental.ID] = &stored
	return nil
}

func (f *fakeRentalRepo) FindByID(_ context.Context, id string) (*model.RentalUnit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	rental, ok := f.rentals[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *rental
	return &found, nil
}

func (f *fakeRentalRepo) FindBySlug(_ context.Context, slug string) (*model.RentalUnit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rental := range f.rentals {
		if rental.Slug == slug {
			found := *rental
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeRentalRepo) List(_ context.Context, _ string, _, _ int) ([]model.RentalUnit, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rentals := []model.RentalUnit{}
	for _, rental := range f.rentals {
		rentals = append(rentals, *rental)
	}
	return rentals, len(rentals), nil
}

func (f *fakeRentalRepo) ListByOwner(_ context.Context, username string) ([]model.RentalUnit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rentals := []model.RentalUnit{}
	for _, rental := range f.rentals {
		if rental.Username == username {
			rentals = append(rentals, *rental)
		}
	}
	return rentals, nil
}

func (f *fakeRentalRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rentals)
}

type fakeReviewRepo struct {
	mu          sync.Mutex
	reviews     map[string]*model.Review // keyed by rentalID|username
	createErr   error
	existsCalls int
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*model.Review{}}
}

func reviewKey(rentalID, username string) string {
	return rentalID + "|" + username
}

func (f *fakeReviewRepo) Create(_ context.Context, _ *sql.Tx, review *model.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	key := reviewKey(review.RentalID, review.Username)
	if _, ok := f.reviews[key]; ok {
		return common.ErrAlreadyReviewed
	}
	stored := *review
	f.reviews[key] = &stored
	return nil
}

func (f *fakeReviewRepo) HasAuthorReviewed(_ context.Context, rentalID, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	_, ok := f.reviews[reviewKey(rentalID, username)]
	return ok, nil
}

func (f *fakeReviewRepo) ListByRental(_ context.Context, rentalID string) ([]model.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reviews := []model.Review{}
	for _, review := range f.reviews {
		if review.RentalID == rentalID {
			reviews = append(reviews, *review)
		}
	}
	return reviews, nil
}

func (f *fakeReviewRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reviews)
}

type fakeListingCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{entries: map[string][]byte{}}
}

func (f *fakeListingCache) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.entries[key]
	return payload, ok
}

func (f *fakeListingCache) Set(_ context.Context, key string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = payload
}

func (f *fakeListingCache) Invalidate(_ context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = map[string][]byte{}
	f.invalidations++
}
