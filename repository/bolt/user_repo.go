package bolt

import (
	"context"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
	"github.com/fastygo/taskapp/repository"
)

// UserRepository reads users from the users bucket.
type UserRepository struct {
	store *boltdb.Store
}

// NewUserRepository creates a Bolt-backed user repository.
func NewUserRepository(store *boltdb.Store) *UserRepository {
	return &UserRepository{store: store}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := []domain.User{}
	err := r.store.View(func(tx *bbolt.Tx) error {
		return each(tx, boltdb.BucketUsers, func(_ []byte, rec userRecord) error {
			users = append(users, rec.user())
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("read users", err)
	}
	return users, nil
}

func (r *UserRepository) FindByCode(ctx context.Context, code int) (*domain.User, error) {
	return r.findLast(ctx, func(u domain.User) bool {
		return u.Code == code
	})
}

func (r *UserRepository) FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error) {
	return r.findLast(ctx, func(u domain.User) bool {
		return u.Email == email && u.Password == password
	})
}

func (r *UserRepository) findLast(ctx context.Context, match func(domain.User) bool) (*domain.User, error) {
	users, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var found *domain.User
	for i := range users {
		if match(users[i]) {
			found = &users[i]
		}
	}
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return found, nil
}
