package repository

import (
	"context"

	"github.com/fastygo/taskapp/domain"
)

// UserRepository looks up users. When several records share a code (or an
// email/password pair) the last one in storage order wins.
type UserRepository interface {
	FindByCode(ctx context.Context, code int) (*domain.User, error)
	FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}
