package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus360/portal-api/internal/models"
	appErrors "github.com/campus360/portal-api/pkg/errors"
)

type fakeAuthRepo struct {
	byEmail       map[string]*models.User
	byID          map[string]*models.User
	byResetToken  map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	created       *models.User
	passwordSet   string
	resetToken    string
	resetCleared  bool
	revokedAll    []string
	revoked       []string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		byEmail:       map[string]*models.User{},
		byID:          map[string]*models.User{},
		byResetToken:  map[string]*models.User{},
		refreshTokens: map[string]*models.RefreshToken{},
	}
}

func (f *fakeAuthRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	f.created = user
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) UpdatePassword(_ context.Context, _ string, hash string, _ time.Time) error {
	f.passwordSet = hash
	return nil
}

func (f *fakeAuthRepo) SetResetToken(_ context.Context, _ string, token string, _ time.Time) error {
	f.resetToken = token
	return nil
}

func (f *fakeAuthRepo) FindByResetToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.byResetToken[token]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) ClearResetToken(context.Context, string) error {
	f.resetCleared = true
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.refreshTokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	f.revoked = append(f.revoked, id)
	for _, t := range f.refreshTokens {
		if t.ID == id {
			t.Revoked = true
		}
	}
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "campus-portal-test",
		ResetTokenTTL:      time.Hour,
		ResetBaseURL:       "http://localhost:5173",
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterCreatesUnsetRoleAndStartsSession(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	res, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Sam", Email: "sam@campus.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUnset, repo.created.Role)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "sam@campus.edu", res.User.Email)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-new", claims.UserID)
	assert.Equal(t, models.RoleUnset, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.byEmail["sam@campus.edu"] = &models.User{ID: "u1", Email: "sam@campus.edu"}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Sam", Email: "sam@campus.edu", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginSuccessAndWrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.byEmail["sam@campus.edu"] = &models.User{
		ID: "u1", Email: "sam@campus.edu", Name: "Sam",
		Role: models.RoleStudent, PasswordHash: mustHash(t, "secret1"),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@campus.edu", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.Role)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "sam@campus.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@campus.edu", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.byID["u1"] = &models.User{ID: "u1", Email: "sam@campus.edu", Role: models.RoleStudent}
	repo.refreshTokens["old-token"] = &models.RefreshToken{
		ID: "rt-1", UserID: "u1", Token: "old-token",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	res, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", res.RefreshToken)
	assert.Contains(t, repo.revoked, "rt-1", "used refresh token must be revoked")
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.refreshTokens["stale"] = &models.RefreshToken{
		ID: "rt-2", UserID: "u1", Token: "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.byID["u1"] = &models.User{ID: "u1", PasswordHash: mustHash(t, "old-pass")}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	err := svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{CurrentPassword: "old-pass", NewPassword: "new-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordSet)
	assert.Contains(t, repo.revokedAll, "u1")

	err = svc.ChangePassword(context.Background(), "u1", models.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-pass"})
	require.Error(t, err)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@campus.edu"})
	require.NoError(t, err, "unknown accounts must not be distinguishable")
	assert.Empty(t, repo.resetToken)
}

func TestForgotThenResetPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	user := &models.User{ID: "u1", Email: "sam@campus.edu", PasswordHash: mustHash(t, "old")}
	repo.byEmail[user.Email] = user
	repo.byID[user.ID] = user
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	require.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: user.Email}))
	require.NotEmpty(t, repo.resetToken)

	repo.byResetToken[repo.resetToken] = user
	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: repo.resetToken, NewPassword: "brand-new"})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.passwordSet)
	assert.True(t, repo.resetCleared)
	assert.Contains(t, repo.revokedAll, "u1")
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil, nil, testAuthConfig())

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "bogus", NewPassword: "brand-new"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil, nil, testAuthConfig())
	token, _, err := svc.IssueAccessToken(&models.User{ID: "u1", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	require.Error(t, err)

	other := NewAuthService(newFakeAuthRepo(), nil, nil, AuthConfig{AccessTokenSecret: "different", AccessTokenExpiry: time.Hour})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
