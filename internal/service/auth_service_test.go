package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func authConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "unit-test-secret-at-least-32-chars!!",
			ExpireTime: time.Hour,
		},
	}
}

func newAuthService(t *testing.T, users *MockUserRepo, notifier *MockNotifier) (*AuthService, *cache.MemoryCodeStore) {
	t.Helper()
	codes := cache.NewMemoryCodeStore()
	t.Cleanup(codes.Close)
	return NewAuthService(users, authConfig(), codes, notifier), codes
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	user := &model.User{Name: "New", Email: "new@example.com", Password: "secret123"}
	err := svc.Register(user)

	assert.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegister_AdminSelfRegistrationDemoted(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", "sneaky@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.AnythingOfType("*model.User")).Return(nil)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	user := &model.User{Name: "Sneaky", Email: "sneaky@example.com", Password: "secret123", Role: model.Admin}
	err := svc.Register(user)

	assert.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	err := svc.Register(&model.User{Email: "taken@example.com", Password: "x"})

	assert.True(t, errors.Is(err, util.ErrEmailRegistered))
	users.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &model.User{Name: "Ada", Email: "ada@example.com", Password: string(hash), Role: model.Tutor}
	user.ID = 4
	users := new(MockUserRepo)
	users.On("FindByEmail", "ada@example.com").Return(user, nil)
	users.On("UpdateLastLogin", uint(4)).Return(nil)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	token, err := svc.Login("ada@example.com", "secret123")

	assert.NoError(t, err)
	claims, err := util.ParseJWT(token, authConfig().JWT.Secret)
	assert.NoError(t, err)
	assert.Equal(t, uint(4), claims.UserID)
	assert.Equal(t, model.Tutor, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	users := new(MockUserRepo)
	users.On("FindByEmail", "ada@example.com").Return(&model.User{Password: string(hash)}, nil)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	_, err := svc.Login("ada@example.com", "wrong")

	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	_, err := svc.Login("ghost@example.com", "whatever")

	assert.True(t, errors.Is(err, util.ErrInvalidCredentials))
}

func TestLogin_DisabledAccount(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	users := new(MockUserRepo)
	users.On("FindByEmail", "off@example.com").Return(&model.User{Password: string(hash), Disabled: true}, nil)
	svc, _ := newAuthService(t, users, new(MockNotifier))

	_, err := svc.Login("off@example.com", "secret123")

	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestPasswordReset_RoundTrip(t *testing.T) {
	user := &model.User{Name: "Ada", Email: "ada@example.com"}
	user.ID = 4
	users := new(MockUserRepo)
	users.On("FindByEmail", "ada@example.com").Return(user, nil)
	users.On("UpdatePassword", uint(4), mock.AnythingOfType("string")).Return(nil)
	notifier := new(MockNotifier)
	notifier.On("Send", "ada@example.com", mock.Anything, mock.Anything).Return(nil)
	svc, codes := newAuthService(t, users, notifier)
	ctx := context.Background()

	assert.NoError(t, svc.RequestPasswordReset(ctx, "ada@example.com"))
	code, ok, err := codes.Get(ctx, "ada@example.com")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, code, 6)

	assert.NoError(t, svc.ResetPassword(ctx, "ada@example.com", code, "brandnewpass"))
	users.AssertCalled(t, "UpdatePassword", uint(4), mock.AnythingOfType("string"))

	// single use
	_, ok, _ = codes.Get(ctx, "ada@example.com")
	assert.False(t, ok)
}

func TestPasswordReset_UnknownEmailSendsNothing(t *testing.T) {
	users := new(MockUserRepo)
	users.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
	notifier := new(MockNotifier)
	svc, codes := newAuthService(t, users, notifier)

	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")

	assert.NoError(t, err)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	_, ok, _ := codes.Get(context.Background(), "ghost@example.com")
	assert.False(t, ok)
}

func TestResetPassword_WrongCode(t *testing.T) {
	users := new(MockUserRepo)
	svc, codes := newAuthService(t, users, new(MockNotifier))
	ctx := context.Background()
	assert.NoError(t, codes.Set(ctx, "ada@example.com", "123456", time.Minute))

	err := svc.ResetPassword(ctx, "ada@example.com", "654321", "newpass")

	assert.True(t, errors.Is(err, util.ErrInvalidResetCode))
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything)
}
