package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/server/auth"
	"github.com/foodshare/foodshare/internal/server/config"
	"github.com/foodshare/foodshare/internal/server/refreshtokens"
)

const minPasswordLength = 8

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a donor or recipient account. Admin accounts cannot be
// created this way.
func (s *Service) Register(ctx context.Context, email, password, role string) (*User, error) {

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", common.ErrorInvalidListing)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidListing, minPasswordLength)
	}
	if role != RoleDonor && role != RoleRecipient {
		return nil, fmt.Errorf("%w: role must be donor or recipient", common.ErrorInvalidListing)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return user, nil
}

func (s *Service) generateAccessToken(user *User) (string, error) {
	return auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *Service) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

// Login verifies credentials and issues a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := auth.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issueTokens(ctx, user)
}

// Refresh trades a valid refresh token for a new pair. The used token is
// deleted so each refresh token works exactly once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	rt, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if time.Now().After(rt.ExpiresAt) {
		_ = s.refreshTokenRepo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repo.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Role:         user.Role,
	}, nil
}

// List returns all accounts, for the admin view.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// CountByRole returns the number of accounts per role.
func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByRole(ctx)
}
