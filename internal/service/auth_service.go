package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coursehub/internal/domain"
	"coursehub/internal/repository"
	"coursehub/internal/token"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	fullNameMinLen = 3
	fullNameMaxLen = 20
	passwordMinLen = 8
	passwordMaxLen = 20
)

// AuthService handles account registration and login, issuing access tokens.
type AuthService interface {
	Register(ctx context.Context, username, fullName, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	users      repository.UserRepository
	tokens     *token.Service
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, tokens *token.Service, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Register(ctx context.Context, username, fullName, password string) (string, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)

	if err := validateLength("username", username, usernameMinLen, usernameMaxLen); err != nil {
		return "", err
	}
	if err := validateLength("full name", fullName, fullNameMinLen, fullNameMaxLen); err != nil {
		return "", err
	}
	if err := validateLength("password", password, passwordMinLen, passwordMaxLen); err != nil {
		return "", err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return "", ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration can still win the uniqueness race
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return "", ErrUsernameTaken
		}
		return "", err
	}

	return s.tokens.Issue(user.Username, user.ID)
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Username, user.ID)
}

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return validationErrorf("%s is required", field)
	case n < min:
		return validationErrorf("%s must be at least %d characters", field, min)
	case n > max:
		return validationErrorf("%s must be at most %d characters", field, max)
	}
	return nil
}
