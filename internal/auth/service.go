// Package auth wraps the identity provider: account management with role
// claims and bearer-token verification for the HTTP layer.
package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"

	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
	"hireflow/pkg/models"
)

// roleClaim is the custom claim carrying a user's platform role
const roleClaim = "role"

// ErrUserNotFound is returned when the identity provider has no such account
var ErrUserNotFound = errors.New("user not found")

// Known platform roles
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleCandidate = "candidate"
)

// Service manages identity-provider accounts
type Service struct {
	client *fbauth.Client
	logger types.Logger
}

// NewService derives the auth client from the Firebase app
func NewService(ctx context.Context, app *firebase.App) (*Service, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth client: %w", err)
	}
	return &Service{
		client: client,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// CreateUser provisions an account and stamps its role claim
func (s *Service) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error) {
	params := (&fbauth.UserToCreate{}).
		Email(req.Email).
		Password(req.Password).
		DisplayName(req.DisplayName)

	record, err := s.client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.client.SetCustomUserClaims(ctx, record.UID, map[string]interface{}{
		roleClaim: req.Role,
	}); err != nil {
		return nil, fmt.Errorf("failed to set role for user %s: %w", record.UID, err)
	}

	s.logger.Info("User created", map[string]interface{}{
		"uid":  record.UID,
		"role": req.Role,
	})

	return &models.UserResponse{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		Role:        req.Role,
	}, nil
}

// GetUser fetches an account by UID
func (s *Service) GetUser(ctx context.Context, uid string) (*models.UserResponse, error) {
	record, err := s.client.GetUser(ctx, uid)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	return userResponse(record), nil
}

// UpdateRole replaces a user's role claim
func (s *Service) UpdateRole(ctx context.Context, uid, role string) error {
	if err := s.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{
		roleClaim: role,
	}); err != nil {
		return fmt.Errorf("failed to update role for user %s: %w", uid, err)
	}

	s.logger.Info("User role updated", map[string]interface{}{
		"uid":  uid,
		"role": role,
	})
	return nil
}

// UpdatePassword replaces a user's password
func (s *Service) UpdatePassword(ctx context.Context, uid, password string) error {
	params := (&fbauth.UserToUpdate{}).Password(password)
	if _, err := s.client.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", uid, err)
	}
	return nil
}

// DeleteUser removes an account
func (s *Service) DeleteUser(ctx context.Context, uid string) error {
	if err := s.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", uid, err)
	}

	s.logger.Info("User deleted", map[string]interface{}{"uid": uid})
	return nil
}

// VerifyToken validates a bearer token and returns its UID and role claim
func (s *Service) VerifyToken(ctx context.Context, idToken string) (uid, role string, err error) {
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid token: %w", err)
	}

	role, _ = token.Claims[roleClaim].(string)
	return token.UID, role, nil
}

func userResponse(record *fbauth.UserRecord) *models.UserResponse {
	role, _ := record.CustomClaims[roleClaim].(string)
	return &models.UserResponse{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		Role:        role,
		Disabled:    record.Disabled,
	}
}
