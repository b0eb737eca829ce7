package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskmasters/taskmasters-api/internal/config"
	"github.com/taskmasters/taskmasters-api/internal/dto"
	"github.com/taskmasters/taskmasters-api/internal/models"
	"github.com/taskmasters/taskmasters-api/internal/services"
	"github.com/taskmasters/taskmasters-api/internal/testutil"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	return services.NewAuthService(db, cfg), db
}

func TestRegister(t *testing.T) {
	svc, db := newAuthService(t)

	user, err := svc.Register(&dto.RegisterRequest{
		Email:    "  Ana@Example.COM ",
		Password: "secret123",
		Name:     "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, user.IsVerified)
	assert.Equal(t, models.DefaultPomodoroGoal, user.PomodoroGoal)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, "secret123", stored.Password)
	require.NotNil(t, stored.VerificationToken)
	assert.NotEmpty(t, *stored.VerificationToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	req := &dto.RegisterRequest{Email: "ana@example.com", Password: "secret123", Name: "Ana"}
	_, err := svc.Register(req)
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = svc.Register(&dto.RegisterRequest{Email: "ANA@example.com", Password: "secret123", Name: "Ana"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "not-an-email", Password: "secret123", Name: "Ana"})
	assert.ErrorIs(t, err, services.ErrInvalidEmail)

	_, err = svc.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "12345", Name: "Ana"})
	assert.ErrorIs(t, err, services.ErrPasswordTooShort)

	_, err = svc.Register(&dto.RegisterRequest{Email: "ana@example.com", Password: "secret123", Name: " A "})
	assert.ErrorIs(t, err, services.ErrNameTooShort)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	registered, err := svc.Register(&dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
		Name:     "Ana",
	})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)

	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, registered.ID.String(), claims["sub"])
	assert.Equal(t, "ana@example.com", claims["email"])
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
		Name:     "Ana",
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	svc, db := newAuthService(t)

	registered, err := svc.Register(&dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
		Name:     "Ana",
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", registered.ID).Error)
	require.NotNil(t, stored.VerificationToken)
	token := *stored.VerificationToken

	verified, err := svc.VerifyEmail(token)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	require.NoError(t, db.First(&stored, "id = ?", registered.ID).Error)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)

	// The token is consumed on first use.
	_, err = svc.VerifyEmail(token)
	assert.ErrorIs(t, err, services.ErrInvalidVerifyToken)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.VerifyEmail(uuid.New().String())
	assert.ErrorIs(t, err, services.ErrInvalidVerifyToken)
}

func TestProfile(t *testing.T) {
	svc, db := newAuthService(t)
	user := testutil.NewTestUser(t, db, "ana@example.com")

	profile, err := svc.Profile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = svc.Profile(uuid.New())
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestListUsers_NewestFirst(t *testing.T) {
	svc, db := newAuthService(t)

	older := models.User{
		ID:        uuid.New(),
		Email:     "older@example.com",
		Password:  "not-a-real-hash",
		Name:      "Older",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := models.User{
		ID:        uuid.New(),
		Email:     "newer@example.com",
		Password:  "not-a-real-hash",
		Name:      "Newer",
		CreatedAt: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "newer@example.com", users[0].Email)
	assert.Equal(t, "older@example.com", users[1].Email)
}
