// Package admin verifies the single back-office credential and manages
// password/email changes.
package admin

import (
	"context"
	"errors"
	"net/mail"

	"github.com/rs/zerolog"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	ErrBadEmail     = errors.New("invalid email address")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Login verifies the submitted credentials. It reports success or failure
// only; the stored hash is never returned and a wrong email and a wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (bool, error) {
	a, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if email != "" && email != a.Email {
		return false, nil
	}
	return CheckPassword(a.PasswordHash, password), nil
}

// ChangePassword re-verifies the current password before storing the new
// hash. The stored hash is untouched on any failure.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < 6 {
		return ErrWeakPassword
	}
	a, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if !CheckPassword(a.PasswordHash, current) {
		return ErrUnauthorized
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, a.ID, hash)
}

func (s *Service) UpdateEmail(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrBadEmail
	}
	a, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	return s.repo.UpdateEmail(ctx, a.ID, email)
}

// Seed hashes the default password and creates the admin row if the table
// is empty. Safe to call on every startup.
func Seed(ctx context.Context, repo Repository, email, password string, log zerolog.Logger) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := repo.Seed(ctx, email, hash); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("admin seed ensured")
	return nil
}
