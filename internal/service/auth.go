package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
	"github.com/rinesakuci/campus-hub/internal/util"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is deliberately uniform: unknown email and wrong
	// password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingRefresh     = errors.New("missing refresh token")
	// ErrInvalidRefresh collapses not-found, expired, already-rotated and
	// deleted-owner into one outcome.
	ErrInvalidRefresh = errors.New("invalid refresh token")
)

// AuthResult is what login and refresh hand back to the controller; the
// RefreshToken is the raw cookie value, never persisted as-is.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// AuthService orchestrates login, refresh rotation and logout on top of the
// token codec and the refresh session store.
type AuthService struct {
	tokens  *TokenService
	storage storage.Storage
	log     *zap.SugaredLogger
}

func NewAuthService(tokens *TokenService, storage storage.Storage, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		tokens:  tokens,
		storage: storage,
		log:     log,
	}
}

func (s *AuthService) Tokens() *TokenService { return s.tokens }

// Register creates a user account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string, role models.Role) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || email == "" || password == "" {
		return nil, util.NewResponseError(http.StatusBadRequest, "fullName, email and password are required")
	}
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, util.NewResponseError(http.StatusBadRequest, "unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and opens a new refresh chain.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the presented refresh value: the matching session is
// revoked and a new one is created, atomically. Presenting an already
// rotated value fails even before its natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshValue string) (*AuthResult, error) {
	if refreshValue == "" {
		return nil, ErrMissingRefresh
	}

	now := time.Now().UTC()
	oldHash := s.tokens.HashToken(refreshValue)

	session, err := s.storage.GetActiveSessionByHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session.Expired(now) {
		return nil, ErrInvalidRefresh
	}

	newValue, err := s.tokens.NewRefreshValue()
	if err != nil {
		return nil, fmt.Errorf("new refresh value: %w", err)
	}

	newSession := models.RefreshSession{
		UserID:    session.UserID,
		TokenHash: s.tokens.HashToken(newValue),
		ExpiresAt: now.Add(s.tokens.RefreshTTL()),
		CreatedAt: now,
	}

	user, err := s.storage.RotateSessionTx(ctx, oldHash, newSession)
	if err != nil {
		// A concurrent refresh won the conditional revoke, or the owning
		// account is gone. Either way the presented value is no longer good.
		if errors.Is(err, storage.ErrSessionNotFound) || errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	accessToken, err := s.tokens.CreateAccessToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: newValue,
		User:         user,
	}, nil
}

// Logout revokes the session matching the cookie value, best effort. It
// never returns an error: a failed revoke only means the row stays active
// until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, refreshValue string) {
	if refreshValue == "" {
		return
	}

	hash := s.tokens.HashToken(refreshValue)
	if err := s.storage.RevokeSession(ctx, hash, nil); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		s.log.Warnw("logout: failed to revoke session", "error", err)
	}
}

// SeedAdmin creates the configured admin account if it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, cfg *util.AdminSeedConfig) error {
	if cfg == nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("check seed admin: %w", err)
	}

	if _, err := s.Register(ctx, cfg.FullName, cfg.Email, cfg.Password, models.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.log.Infow("seeded admin account", "email", email)
	return nil
}

// DeleteUser removes an account and cascade-revokes its refresh sessions.
func (s *AuthService) DeleteUser(ctx context.Context, userID int64) error {
	return s.storage.DeleteUserTx(ctx, userID)
}

// HashPassword is used by the admin user-management handlers.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := time.Now().UTC()

	accessToken, err := s.tokens.CreateAccessToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshValue, err := s.tokens.NewRefreshValue()
	if err != nil {
		return nil, fmt.Errorf("new refresh value: %w", err)
	}

	_, err = s.storage.CreateSession(ctx, models.RefreshSession{
		UserID:    user.ID,
		TokenHash: s.tokens.HashToken(refreshValue),
		ExpiresAt: now.Add(s.tokens.RefreshTTL()),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		User:         user,
	}, nil
}
