package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/pkg/logger"
	"github.com/fastygo/taskapp/repository"
)

// TokenConfig controls the bearer tokens issued to API clients.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Token is a signed bearer token for a logged-in user.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UseCase struct {
	users  repository.UserRepository
	tokens TokenConfig
	logger *zap.Logger
}

func New(users repository.UserRepository, tokens TokenConfig, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens.TTL <= 0 {
		tokens.TTL = time.Hour
	}
	return &UseCase{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login returns the user matching both email and password.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.users.FindByEmailAndPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.WithRequestID(ctx, uc.logger).Info("login rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("user logged in", zap.Int("user_code", user.Code))
	return user, nil
}

// CurrentUser resolves the user a verified token was issued for.
func (uc *UseCase) CurrentUser(ctx context.Context, code int) (*domain.User, error) {
	user, err := uc.users.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// IssueToken signs an HS256 token carrying the user code.
func (uc *UseCase) IssueToken(user *domain.User, now time.Time) (*Token, error) {
	if uc.tokens.Secret == "" {
		return nil, domain.NewError(domain.ErrCodeInternal, "token secret not configured")
	}
	expires := now.Add(uc.tokens.TTL)
	claims := jwt.MapClaims{
		"user_code": user.Code,
		"iat":       now.Unix(),
		"exp":       expires.Unix(),
	}
	if uc.tokens.Issuer != "" {
		claims["iss"] = uc.tokens.Issuer
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.tokens.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Token{Value: signed, ExpiresAt: expires}, nil
}
