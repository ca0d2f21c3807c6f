package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/wesglu/checkbox/internal/apierror"
	"github.com/wesglu/checkbox/internal/config"
	"github.com/wesglu/checkbox/internal/dto"
	"github.com/wesglu/checkbox/internal/model"
	"github.com/wesglu/checkbox/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) error
	Signin(ctx context.Context, req dto.SigninRequest) (*dto.TokenResponse, error)
	CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) error {
	if _, err := s.repo.FindByLogin(ctx, req.Login); err == nil {
		return apierror.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return err
	}
	user := &model.User{
		Name:         req.Name,
		Login:        req.Login,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// The unique index on login catches the lookup/insert race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierror.ErrConflict
		}
		return err
	}
	return nil
}

func (s *authService) Signin(ctx context.Context, req dto.SigninRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if !user.IsActive {
		return nil, apierror.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.ErrUnauthorized
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apierror.ErrNotFound
	}
	if !user.IsActive {
		return nil, apierror.ErrForbidden
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Login:     user.Login,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.TokenTTLHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
