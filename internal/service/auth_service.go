package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/domain/user"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/ovalstats/cricket-data-api/internal/storage/memstorage"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo user.Repository
	cfg      *config.JWTConfig
	logger   *zap.Logger
}

func NewAuthService(userRepo user.Repository, cfg *config.JWTConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.Named("AuthService"),
	}
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Info("Login attempt for unknown user", zap.String("username", username))
		return "", ierr.ErrInvalidCredentials
	}

	if !memstorage.CheckPassword(u.PasswordHash, password) {
		s.logger.Info("Login attempt with wrong password", zap.String("username", username))
		return "", ierr.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := Claims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", fmt.Errorf("%w: signing token: %v", ierr.ErrInternalServer, err)
	}

	s.logger.Info("User logged in", zap.String("username", username))
	return signed, nil
}

func (s *AuthService) ValidateToken(ctx context.Context, rawToken string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		s.logger.Debug("Token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ierr.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ierr.ErrInvalidToken
	}

	return claims, nil
}
