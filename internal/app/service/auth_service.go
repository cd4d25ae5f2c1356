package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common/security"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/model"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/domain/repository"

	"github.com/go-playground/validator/v10"
)

var (
	hasLetter  = regexp.MustCompile(`[A-Za-z]`)
	hasDigit   = regexp.MustCompile(`\d`)
	phoneJunk  = regexp.MustCompile(`[-()\s]`)
	phoneShape = regexp.MustCompile(`^\d{10,15}$`)
)

type AuthService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrValidation)
	}
	if !hasLetter.MatchString(req.Password) || !hasDigit.MatchString(req.Password) {
		return nil, fmt.Errorf("password must contain at least one letter and one number: %w", common.ErrValidation)
	}
	if !phoneShape.MatchString(phoneJunk.ReplaceAllString(req.Phone, "")) {
		return nil, fmt.Errorf("invalid phone number format: %w", common.ErrValidation)
	}

	if err := s.checkIdentityFree(ctx, req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		HashedPassword: hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on the unique constraints.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// checkIdentityFree pre-checks the three globally unique identity fields so
// registration failures name the taken field; the DB constraints remain the
// authoritative guard.
func (s *AuthService) checkIdentityFree(ctx context.Context, req RegisterRequest) error {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return fmt.Errorf("username already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("email already in use: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.FindByPhone(ctx, req.Phone); err == nil {
		return fmt.Errorf("phone number already in use: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Profile(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
