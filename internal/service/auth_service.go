package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain/doctor"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/auth"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountLocked          = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive        = errors.New("account is inactive")
	ErrEmailAlreadyRegistered = errors.New("email is already registered")
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error
	LinkDoctor(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenStore is the session token backend (Redis in production). Refresh
// tokens are honored only while registered; revoked access jtis are denied.
type TokenStore interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RegisterCommand struct {
	Name            string
	Email           string
	Password        string
	Hospital        string
	Specialization  string
	ExperienceYears int
}

type AuthService struct {
	userRepo   UserRepository
	doctorRepo doctor.Repository
	jwtManager *auth.JWTManager
	tokens     TokenStore
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(
	userRepo UserRepository,
	doctorRepo doctor.Repository,
	jwtManager *auth.JWTManager,
	tokens TokenStore,
	auditSvc *AuditService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		jwtManager: jwtManager,
		tokens:     tokens,
		auditSvc:   auditSvc,
		log:        log,
	}
}

// Register creates the session user and the linked doctor profile. The
// profile is read-only afterwards; session user and doctor stay one-to-one.
func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand) (*doctor.Doctor, error) {
	if err := validateRegisterCommand(cmd); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	d := &doctor.Doctor{
		UserID:          u.ID,
		Name:            strings.TrimSpace(cmd.Name),
		Email:           email,
		Hospital:        strings.TrimSpace(cmd.Hospital),
		Specialization:  strings.TrimSpace(cmd.Specialization),
		ExperienceYears: cmd.ExperienceYears,
	}
	if err := s.doctorRepo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor profile", zap.Error(err))
		s.unwindUser(ctx, u.ID)
		return nil, fmt.Errorf("creating doctor profile: %w", err)
	}

	if err := s.userRepo.LinkDoctor(ctx, u.ID, d.ID); err != nil {
		s.unwindUser(ctx, u.ID)
		return nil, fmt.Errorf("linking doctor profile: %w", err)
	}

	s.log.Info("doctor registered",
		zap.String("user_id", u.ID.String()),
		zap.String("doctor_id", d.ID.String()),
	)

	return d, nil
}

// unwindUser removes the session user after a failed registration, so the
// email is not left claimed by an account that can never hold a session.
func (s *AuthService) unwindUser(ctx context.Context, id uuid.UUID) {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		s.log.Error("failed to remove user after registration failure",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the email exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		// Record failed attempt; lock if threshold exceeded
		_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, false)
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, true)

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID,
		Action:       string(domain.ActionLogin),
		ResourceType: "session",
		IPAddress:    ip,
	})

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken rotates a valid refresh token into a new token pair. The old
// refresh token is invalidated so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Only refresh tokens registered in the session store are honored;
	// logout removes the entry.
	if _, err := s.tokens.GetRefreshToken(ctx, claims.TokenID); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.tokens.DeleteRefreshToken(ctx, claims.TokenID); err != nil {
		s.log.Warn("failed to rotate refresh token", zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates the session server-side: the access token's jti joins
// the denylist until its natural expiry and the refresh token entry is
// removed, so any subsequent call with either token fails.
func (s *AuthService) Logout(ctx context.Context, accessClaims *domain.Claims, refreshToken string, ip string) error {
	if err := s.tokens.RevokeAccessToken(ctx, accessClaims.TokenID, s.jwtManager.AccessTokenTTL()); err != nil {
		return fmt.Errorf("revoking access token: %w", err)
	}

	if refreshToken != "" {
		if claims, err := s.jwtManager.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.tokens.DeleteRefreshToken(ctx, claims.TokenID); err != nil {
				s.log.Warn("failed to delete refresh token on logout", zap.Error(err))
			}
		}
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       accessClaims.UserID,
		Action:       string(domain.ActionLogout),
		ResourceType: "session",
		IPAddress:    ip,
	})

	s.log.Info("user logged out", zap.String("user_id", accessClaims.UserID.String()))
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	claims := &domain.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		DoctorID: user.DoctorID,
	}

	pair, refreshTokenID, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	if err := s.tokens.StoreRefreshToken(ctx, refreshTokenID, user.ID, s.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("registering refresh token: %w", err)
	}

	return pair, nil
}

func validateRegisterCommand(cmd *RegisterCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		errs = append(errs, "email is required")
	}
	if len(cmd.Password) < 12 {
		errs = append(errs, "password must be at least 12 characters")
	}
	if cmd.ExperienceYears < 0 {
		errs = append(errs, "experience_years cannot be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
