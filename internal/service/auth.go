package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tasknest/task-manager-api/internal/auth"
	"github.com/tasknest/task-manager-api/internal/model"
	"github.com/tasknest/task-manager-api/internal/repo"
)

// ErrInvalidCredentials is returned for any login mismatch. The same error
// covers unknown email and wrong password so accounts cannot be enumerated.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users  repo.UserRepository
	tokens *auth.Manager
}

func NewAuthService(users repo.UserRepository, tokens *auth.Manager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, in model.RegisterInput) (model.User, error) {
	u := model.User{
		Name:               strings.TrimSpace(in.Name),
		Email:              strings.TrimSpace(strings.ToLower(in.Email)),
		Role:               model.RoleUser,
		EmailNotifications: true,
	}

	if len(u.Name) < 3 {
		return u, &ValidationError{Field: "name", Message: "name must be at least 3 characters"}
	}
	if !strings.Contains(u.Email, "@") {
		return u, &ValidationError{Field: "email", Message: "invalid email"}
	}
	if len(in.Password) < 6 {
		return u, &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return u, &ValidationError{Field: "role", Message: "unknown role"}
		}
		u.Role = *in.Role
	}
	if in.EmailNotifications != nil {
		u.EmailNotifications = *in.EmailNotifications
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return u, err
	}
	u.PasswordHash = string(hash)

	return s.users.Create(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error) {
	var result model.LoginResult

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(creds.Email)))
	if err != nil {
		if errors.Is(err, repo.ErrorNotFound) {
			return result, ErrInvalidCredentials
		}
		return result, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return result, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return result, err
	}

	result.AccessToken = token
	result.User = user.Public()
	return result, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in model.UpdateUserInput) (model.User, error) {
	var u model.User

	if in.Name == nil && in.Email == nil && in.EmailNotifications == nil {
		return u, &ValidationError{Field: "body", Message: "no fields to update"}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 3 {
			return u, &ValidationError{Field: "name", Message: "name must be at least 3 characters"}
		}
		in.Name = &name
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if !strings.Contains(email, "@") {
			return u, &ValidationError{Field: "email", Message: "invalid email"}
		}
		in.Email = &email
	}

	return s.users.Update(ctx, userID, in)
}
