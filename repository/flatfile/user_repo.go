package flatfile

import (
	"context"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/repository"
)

// UserRepository reads users from a `Code,Name,Email,Password` file.
type UserRepository struct {
	table table
}

// NewUserRepository creates a file-backed user repository.
func NewUserRepository(path string) *UserRepository {
	return &UserRepository{table: newTable(path, usersHeader)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	records, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		user, err := r.parse(rec)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
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

// findLast scans the whole file; a later match replaces an earlier one.
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

func (r *UserRepository) parse(rec record) (domain.User, error) {
	code, err := rec.intField(r.table, 0)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		Code:     code,
		Name:     rec.fields[1],
		Email:    rec.fields[2],
		Password: rec.fields[3],
	}, nil
}
