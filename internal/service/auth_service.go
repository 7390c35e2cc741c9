package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/study-seat-api/internal/dto"
	"github.com/noah-isme/study-seat-api/internal/models"
	appErrors "github.com/noah-isme/study-seat-api/pkg/errors"
)

const tokenSubject = "user"

// AuthConfig defines configuration for token issuance.
type AuthConfig struct {
	AccessKey         string
	AccessKeyHash     string
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService exchanges the administrator access key for signed tokens.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	keyHash   []byte
	now       func() time.Time
}

// NewAuthService constructs an AuthService. A plain access key is hashed once at startup.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	if config.AccessTokenSecret == "" {
		return nil, fmt.Errorf("access token secret is required")
	}

	keyHash := []byte(config.AccessKeyHash)
	if len(keyHash) == 0 {
		if config.AccessKey == "" {
			return nil, fmt.Errorf("access key or access key hash is required")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(config.AccessKey), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash access key: %w", err)
		}
		keyHash = hashed
	}
	config.AccessKey = ""

	return &AuthService{
		validator: validate,
		logger:    logger,
		config:    config,
		keyHash:   keyHash,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// IssueToken verifies the access key and returns an administrator bearer token.
func (s *AuthService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid token payload")
	}

	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(req.Key)); err != nil {
		s.logger.Warn("access key rejected")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid access key")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   tokenSubject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("access token issued", zap.Time("expires_at", expiresAt))
	return &dto.TokenResponse{
		Token:     signed,
		TokenType: "bearer",
		ExpiresIn: int64(s.config.AccessTokenExpiry.Seconds()),
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}
