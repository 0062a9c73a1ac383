package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskapp/domain"
	"github.com/fastygo/taskapp/repository/flatfile"
)

const usersCSV = `Code,Name,Email,Password
1,Suzuki,suzuki@example.com,pass1
2,Tanaka,tanaka@example.com,pass2
`

func newUseCase(t *testing.T) *UseCase {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte(usersCSV), 0o644))
	return New(flatfile.NewUserRepository(path), TokenConfig{Secret: "test-secret", Issuer: "taskapp"}, nil)
}

func TestLogin(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	tests := []struct {
		email    string
		password string
		wantCode int
	}{
		{"suzuki@example.com", "pass1", 1},
		{"tanaka@example.com", "pass2", 2},
		{"suzuki@example.com", "pass2", 0},
		{"unknown@example.com", "pass1", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.email+"/"+tt.password, func(t *testing.T) {
			user, err := uc.Login(ctx, tt.email, tt.password)
			if tt.wantCode == 0 {
				assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
				assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, user.Code)
			assert.Equal(t, tt.email, user.Email)
		})
	}
}

func TestLogin_StorageFailureIsNotACredentialError(t *testing.T) {
	uc := New(flatfile.NewUserRepository(filepath.Join(t.TempDir(), "missing.csv")), TokenConfig{}, nil)

	_, err := uc.Login(context.Background(), "suzuki@example.com", "pass1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestCurrentUser(t *testing.T) {
	uc := newUseCase(t)

	user, err := uc.CurrentUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Tanaka", user.Name)

	_, err = uc.CurrentUser(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIssueToken(t *testing.T) {
	uc := newUseCase(t)
	now := time.Now()

	token, err := uc.IssueToken(&domain.User{Code: 2}, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), token.ExpiresAt, time.Second)

	parsed, err := jwt.Parse(token.Value, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(2), claims["user_code"])
	assert.Equal(t, "taskapp", claims["iss"])
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	uc := New(nil, TokenConfig{}, nil)

	_, err := uc.IssueToken(&domain.User{Code: 1}, time.Now())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}
