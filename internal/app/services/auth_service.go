package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/umut/fairline/internal/app/models"
	"github.com/umut/fairline/internal/app/models/dto"
	"github.com/umut/fairline/internal/pkg/apperrors"
	"github.com/umut/fairline/internal/pkg/auth"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userStore  UserStore
	jwtService *auth.JWTService
	opTimeout  time.Duration
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userStore UserStore, jwtService *auth.JWTService, opTimeout time.Duration, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userStore:  userStore,
		jwtService: jwtService,
		opTimeout:  opTimeout,
		logger:     logger,
	}
}

// Register creates a new student or recruiter account
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperrors.NewInvalidArgumentError("full name must not be empty")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewCustomError(err, "failed to hash password")
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
		FullName: fullName,
		Role:     models.RoleType(req.Role),
	}

	if _, err := s.userStore.Create(ctx, user); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", req.Role).Msg("Account registered")

	return &dto.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	}, nil
}

// Login verifies credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	ctx, cancel := boundCtx(ctx, s.opTimeout)
	defer cancel()

	user, err := s.userStore.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Same error for unknown email and bad password
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, mapStoreErr(err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.NewCustomError(err, "failed to issue token")
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
