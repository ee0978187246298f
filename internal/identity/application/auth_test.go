package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linjx/gomall/internal/identity/domain"
	"github.com/linjx/gomall/internal/sequence"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/token"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (r *fakeUserRepo) Save(_ context.Context, u *domain.User) error {
	cp := *u
	r.byEmail[u.Email] = &cp
	r.byID[u.UserID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUserID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := r.byID[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func newTestAuth() (*AuthCommandService, *AuthQueryService, *token.Manager) {
	repo := newFakeUserRepo()
	tokens := token.NewManager("test-secret", time.Hour)
	cmd := NewAuthCommandService(repo, sequence.NewMemoryAllocator(), tokens, nil)
	query := NewAuthQueryService(repo)
	return cmd, query, tokens
}

func TestRegisterAssignsSequentialUserIDs(t *testing.T) {
	cmd, _, _ := newTestAuth()
	ctx := context.Background()

	first, err := cmd.Register(ctx, RegisterCommand{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "USR-10001", first.UserID)
	assert.Empty(t, first.Phone)

	second, err := cmd.Register(ctx, RegisterCommand{Name: "Bob", Email: "bob@example.com", Password: "secret2"})
	require.NoError(t, err)
	assert.Equal(t, "USR-10002", second.UserID)
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	cmd, _, _ := newTestAuth()
	ctx := context.Background()

	_, err := cmd.Register(ctx, RegisterCommand{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	// 邮箱大小写不敏感
	_, err = cmd.Register(ctx, RegisterCommand{Name: "Alice2", Email: "ALICE@example.com", Password: "secret2"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRegisterValidation(t *testing.T) {
	cmd, _, _ := newTestAuth()
	ctx := context.Background()

	cases := []RegisterCommand{
		{Name: "", Email: "a@b.com", Password: "secret1"},
		{Name: "A", Email: "not-an-email", Password: "secret1"},
		{Name: "A", Email: "a@b.com", Password: "short"},
	}
	for _, c := range cases {
		_, err := cmd.Register(ctx, c)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v should be rejected", c)
	}
}

func TestLogin(t *testing.T) {
	cmd, _, tokens := newTestAuth()
	ctx := context.Background()

	user, err := cmd.Register(ctx, RegisterCommand{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.UserID, result.UserID)

	// 签发的 token 解析回注册时分配的用户编号
	identity, err := tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, identity.UserID)

	// 错误口令与未知邮箱返回同一类认证错误
	_, err = cmd.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = cmd.Login(ctx, LoginCommand{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestAddPhone(t *testing.T) {
	cmd, query, _ := newTestAuth()
	ctx := context.Background()

	user, err := cmd.Register(ctx, RegisterCommand{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	updated, err := cmd.AddPhone(ctx, user.UserID, "13800138000")
	require.NoError(t, err)
	assert.Equal(t, "13800138000", updated.Phone)

	profile, err := query.Profile(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "13800138000", profile.Phone)

	_, err = cmd.AddPhone(ctx, "USR-99999", "13800138000")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestProfileNotFound(t *testing.T) {
	_, query, _ := newTestAuth()

	_, err := query.Profile(context.Background(), "USR-99999")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
