package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/auth"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/storage"
)

// AuthService handles registration, login and profile access.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, string, error) {
	slog.Info("Register request", "email", email)

	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperr.Validation("a valid email is required")
	}
	if username == "" {
		return nil, "", apperr.Validation("username is required")
	}

	user, err := s.authenticator.Register(ctx, email, username, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", internalErr("failed to generate token", err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	slog.Info("Login request", "email", email)

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", apperr.Validation("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", internalErr("failed to generate token", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// CurrentUser retrieves the authenticated user's full profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, internalErr("failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile updates the user's display name and avatar reference.
// Empty fields are left unchanged.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, username, avatar string) (*models.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username = strings.TrimSpace(username); username != "" {
		user.Username = username
	}
	if avatar != "" {
		user.Avatar = avatar
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, internalErr("failed to update profile", err)
	}

	slog.Info("Profile updated", "user_id", userID)
	return user, nil
}
