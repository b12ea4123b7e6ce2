package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/config"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/auth"
)

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-for-unit-tests-only",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "glaucoma-portal-test",
	})
}

func newAuthService(users *MockUserRepository, doctors *MockDoctorRepository, tokens *MockTokenStore) *AuthService {
	return NewAuthService(users, doctors, newTestJWTManager(), tokens, newTestAuditService(), zap.NewNop())
}

func activeUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "asha@clinic.example",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestAuthService_Register(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "asha@clinic.example").Return(nil, ErrUserNotFound)
	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)
	mockUsers.On("LinkDoctor", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	mockDoctors := new(MockDoctorRepository)
	mockDoctors.On("Create", mock.Anything, mock.AnythingOfType("*doctor.Doctor")).Return(nil)

	svc := newAuthService(mockUsers, mockDoctors, new(MockTokenStore))
	d, err := svc.Register(context.Background(), &RegisterCommand{
		Name:            " Dr. Asha Rao ",
		Email:           " Asha@Clinic.Example ",
		Password:        "a-long-enough-password",
		Hospital:        "City Eye Hospital",
		Specialization:  "Glaucoma",
		ExperienceYears: 12,
	})

	require.NoError(t, err)
	assert.Equal(t, "Dr. Asha Rao", d.Name)
	assert.Equal(t, "asha@clinic.example", d.Email)
	assert.Equal(t, 12, d.ExperienceYears)

	mockUsers.AssertExpectations(t)
	mockDoctors.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "asha@clinic.example").
		Return(&domain.User{Email: "asha@clinic.example"}, nil)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), new(MockTokenStore))
	_, err := svc.Register(context.Background(), &RegisterCommand{
		Name:     "Dr. Asha Rao",
		Email:    "asha@clinic.example",
		Password: "a-long-enough-password",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	mockUsers.AssertNotCalled(t, "Create")
}

func TestAuthService_RegisterUnwindsUserWhenProfileCreationFails(t *testing.T) {
	userID := uuid.New()

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "asha@clinic.example").Return(nil, ErrUserNotFound)
	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = userID
		}).Return(nil)
	mockUsers.On("Delete", mock.Anything, userID).Return(nil)

	mockDoctors := new(MockDoctorRepository)
	mockDoctors.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	svc := newAuthService(mockUsers, mockDoctors, new(MockTokenStore))
	_, err := svc.Register(context.Background(), &RegisterCommand{
		Name:     "Dr. Asha Rao",
		Email:    "asha@clinic.example",
		Password: "a-long-enough-password",
	})

	require.Error(t, err)
	// The email must not stay claimed by an account without a profile.
	mockUsers.AssertCalled(t, "Delete", mock.Anything, userID)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_RegisterUnwindsUserWhenLinkFails(t *testing.T) {
	userID := uuid.New()

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "asha@clinic.example").Return(nil, ErrUserNotFound)
	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = userID
		}).Return(nil)
	mockUsers.On("LinkDoctor", mock.Anything, userID, mock.Anything).Return(errors.New("update failed"))
	mockUsers.On("Delete", mock.Anything, userID).Return(nil)

	mockDoctors := new(MockDoctorRepository)
	mockDoctors.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newAuthService(mockUsers, mockDoctors, new(MockTokenStore))
	_, err := svc.Register(context.Background(), &RegisterCommand{
		Name:     "Dr. Asha Rao",
		Email:    "asha@clinic.example",
		Password: "a-long-enough-password",
	})

	require.Error(t, err)
	mockUsers.AssertCalled(t, "Delete", mock.Anything, userID)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  RegisterCommand
	}{
		{"missing name", RegisterCommand{Email: "a@b.c", Password: "a-long-enough-password"}},
		{"missing email", RegisterCommand{Name: "A", Password: "a-long-enough-password"}},
		{"short password", RegisterCommand{Name: "A", Email: "a@b.c", Password: "short"}},
		{"negative experience", RegisterCommand{Name: "A", Email: "a@b.c", Password: "a-long-enough-password", ExperienceYears: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(new(MockUserRepository), new(MockDoctorRepository), new(MockTokenStore))
			_, err := svc.Register(context.Background(), &tt.cmd)

			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	user := activeUser("a-long-enough-password")

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	mockUsers.On("UpdateLoginAttempt", mock.Anything, user.ID, true).Return(nil)

	mockTokens := new(MockTokenStore)
	mockTokens.On("StoreRefreshToken", mock.Anything, mock.Anything, user.ID, mock.Anything).Return(nil)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), mockTokens)
	pair, err := svc.Login(context.Background(), user.Email, "a-long-enough-password", "10.0.0.1")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	// The issued access token round-trips through validation.
	claims, err := newTestJWTManager().ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)

	mockUsers.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	user := activeUser("a-long-enough-password")

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	mockUsers.On("UpdateLoginAttempt", mock.Anything, user.ID, false).Return(nil)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), new(MockTokenStore))
	pair, err := svc.Login(context.Background(), user.Email, "wrong-password", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, pair)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_LoginUnknownEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "nobody@clinic.example").Return(nil, ErrUserNotFound)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), new(MockTokenStore))
	_, err := svc.Login(context.Background(), "nobody@clinic.example", "whatever-password", "")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginLockedAccount(t *testing.T) {
	user := activeUser("a-long-enough-password")
	lockedUntil := time.Now().Add(10 * time.Minute)
	user.LockedUntil = &lockedUntil

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), new(MockTokenStore))
	_, err := svc.Login(context.Background(), user.Email, "a-long-enough-password", "")

	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_LoginInactiveAccount(t *testing.T) {
	user := activeUser("a-long-enough-password")
	user.IsActive = false

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), new(MockTokenStore))
	_, err := svc.Login(context.Background(), user.Email, "a-long-enough-password", "")

	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestAuthService_Logout(t *testing.T) {
	userID := uuid.New()
	manager := newTestJWTManager()
	pair, refreshID, err := manager.GenerateTokenPair(&domain.Claims{UserID: userID})
	require.NoError(t, err)

	accessClaims, err := manager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	mockTokens := new(MockTokenStore)
	mockTokens.On("RevokeAccessToken", mock.Anything, accessClaims.TokenID, 15*time.Minute).Return(nil)
	mockTokens.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)

	svc := newAuthService(new(MockUserRepository), new(MockDoctorRepository), mockTokens)
	err = svc.Logout(context.Background(), accessClaims, pair.RefreshToken, "10.0.0.1")

	require.NoError(t, err)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_RefreshTokenRotates(t *testing.T) {
	user := activeUser("a-long-enough-password")
	manager := newTestJWTManager()
	pair, refreshID, err := manager.GenerateTokenPair(&domain.Claims{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)

	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	mockTokens := new(MockTokenStore)
	mockTokens.On("GetRefreshToken", mock.Anything, refreshID).Return(user.ID, nil)
	mockTokens.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
	mockTokens.On("StoreRefreshToken", mock.Anything, mock.Anything, user.ID, mock.Anything).Return(nil)

	svc := newAuthService(mockUsers, new(MockDoctorRepository), mockTokens)
	newPair, err := svc.RefreshToken(context.Background(), pair.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_RefreshTokenNotRegistered(t *testing.T) {
	user := activeUser("a-long-enough-password")
	manager := newTestJWTManager()
	pair, refreshID, err := manager.GenerateTokenPair(&domain.Claims{UserID: user.ID})
	require.NoError(t, err)

	// Logout removed the entry; the still-valid JWT must be refused.
	mockTokens := new(MockTokenStore)
	mockTokens.On("GetRefreshToken", mock.Anything, refreshID).Return(uuid.Nil, ErrUserNotFound)

	svc := newAuthService(new(MockUserRepository), new(MockDoctorRepository), mockTokens)
	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshTokenRejectsAccessToken(t *testing.T) {
	manager := newTestJWTManager()
	pair, _, err := manager.GenerateTokenPair(&domain.Claims{UserID: uuid.New()})
	require.NoError(t, err)

	svc := newAuthService(new(MockUserRepository), new(MockDoctorRepository), new(MockTokenStore))
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
