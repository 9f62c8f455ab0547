package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/cryptox"
	"github.com/tabletopkitchen/kitchen/pkg/jwtx"
)

var (
	ErrEmailTaken         = errors.New("service: email already registered")
	ErrInvalidCredentials = errors.New("service: invalid email or password")
	ErrWeakPassword       = errors.New("service: password too short")
	ErrInvalidInput       = errors.New("service: invalid input")
)

const minPasswordLength = 8

type UserService struct {
	Store  store.Store
	Tokens *jwtx.TokenService
}

// Signup registers a new account. The password is hashed with argon2id
// before it ever touches storage.
func (s *UserService) Signup(ctx context.Context, email, name, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	id, err := s.Store.Users().Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return s.Store.Users().GetByID(ctx, id)
}

// Login verifies credentials and mints a signed access token. A missing
// account and a wrong password both come back as ErrInvalidCredentials so
// the response does not leak which emails are registered.
func (s *UserService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	token, err := s.Tokens.Issue(u.Email, u.ID)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return s.Store.Users().GetByID(ctx, id)
}
