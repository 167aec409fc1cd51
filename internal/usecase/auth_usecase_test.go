package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-appointment-scheduler/config"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memTokenStore struct {
	tokens map[string]bool
}

func tokenKey(userID uuid.UUID, tokenID string, tokenType jwt.TokenType) string {
	return string(tokenType) + ":" + userID.String() + ":" + tokenID
}

func (s *memTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	s.tokens[tokenKey(userID, tokenID, tokenType)] = true
	return nil
}

func (s *memTokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	return s.tokens[tokenKey(userID, tokenID, tokenType)], nil
}

func (s *memTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error {
	delete(s.tokens, tokenKey(userID, tokenID, tokenType))
	return nil
}

func (s *memTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	s.tokens = map[string]bool{}
	return nil
}

type authFixture struct {
	users    *fakeUserRepo
	patients *fakePatientProfileRepo
	tokens   *memTokenStore
	audit    *fakeAuditService
	jwt      *jwt.JWTService
	usecase  AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		patients: &fakePatientProfileRepo{},
		tokens:   &memTokenStore{tokens: map[string]bool{}},
		audit:    &fakeAuditService{},
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.usecase = NewAuthUsecase(nil, quietLogger(), fakeTxManager{}, f.users, f.patients, f.jwt, f.tokens, f.audit)
	return f
}

func (f *authFixture) addUser(email, password string, hash bool) *entity.User {
	stored := password
	if hash {
		h, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		stored = string(h)
	}
	user := &entity.User{ID: uuid.New(), Email: email, Password: stored, FullName: "Test User", RoleID: entity.RoleIDPatient}
	f.users.users[user.ID] = user
	return user
}

func TestLoginIssuesStoredTokens(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser("maria@clinic.test", "secret123", true)

	resp, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "maria@clinic.test", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := f.jwt.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.True(t, f.tokens.tokens[tokenKey(user.ID, claims.TokenID, jwt.AccessToken)])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture()
	f.addUser("maria@clinic.test", "secret123", true)
	inactive := f.addUser("old@clinic.test", "secret123", true)
	no := false
	inactive.IsActive = &no

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "maria@clinic.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "nobody@clinic.test", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "old@clinic.test", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginUpgradesLegacyPlaintextPassword(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser("legacy@clinic.test", "123456", false)

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "legacy@clinic.test", Password: "123456"})
	require.NoError(t, err)

	assert.True(t, user.HasHashedPassword())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("123456")))
	assert.Equal(t, []string{entity.AuditActionPasswordUpgrade}, f.audit.actions())
}

func TestLoginSucceedsWhenUpgradeFails(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser("legacy@clinic.test", "123456", false)
	f.users.updatePasswordErr = errors.New("connection reset")

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "legacy@clinic.test", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "123456", user.Password)
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	f := newAuthFixture()
	f.addUser("maria@clinic.test", "secret123", true)

	login, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "maria@clinic.test", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.usecase.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesAccessAndRefreshTokens(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser("maria@clinic.test", "secret123", true)

	login, err := f.usecase.Login(context.Background(), &dto.LoginRequest{Email: "maria@clinic.test", Password: "secret123"})
	require.NoError(t, err)
	access, err := f.jwt.ValidateToken(login.AccessToken)
	require.NoError(t, err)

	ctx := asActorWithToken(user.ID, entity.RoleIDPatient, access.TokenID)
	require.NoError(t, f.usecase.Logout(ctx, &dto.LogoutRequest{RefreshToken: login.RefreshToken}))

	assert.Empty(t, f.tokens.tokens)
}

func TestRegisterPatientMapsDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.patients.createFn = func(profile *entity.PatientProfile) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	}

	_, err := f.usecase.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email: "maria@clinic.test", Password: "secret123", FullName: "Maria Santos",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterPatientHashesPassword(t *testing.T) {
	f := newAuthFixture()
	var created *entity.PatientProfile
	f.patients.createFn = func(profile *entity.PatientProfile) error {
		profile.User.ID = uuid.New()
		profile.UserID = profile.User.ID
		created = profile
		return nil
	}

	resp, err := f.usecase.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email: "maria@clinic.test", Password: "secret123", FullName: "Maria Santos", BirthDate: "1985-04-12",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RolePatient, resp.Role)
	require.NotNil(t, resp.PatientProfile)
	require.NotNil(t, resp.PatientProfile.BirthDate)
	assert.Equal(t, "1985-04-12", *resp.PatientProfile.BirthDate)
	assert.True(t, created.User.HasHashedPassword())
	assert.Equal(t, []string{entity.AuditActionUserRegister}, f.audit.actions())
}
