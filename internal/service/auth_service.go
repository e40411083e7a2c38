package service

import (
	"context"
	"strings"

	"hustlehub/internal/auth"
	"hustlehub/internal/database"
	"hustlehub/internal/models"
	"hustlehub/internal/observability"
	"hustlehub/internal/repository"
	"hustlehub/internal/validation"
)

// AuthService registers accounts and exchanges credentials for access tokens.
type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens auth.TokenIssuer
	tx     database.Transactor
}

type SignupInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenIssuer, tx database.Transactor) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, tx: tx}
}

// Signup creates an active hustler account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)

	var errs validation.Errors
	errs.Check("email", validation.ValidateEmail(in.Email))
	errs.Check("username", validation.ValidateUsername(in.Username))
	errs.Check("password", validation.ValidatePassword(in.Password))
	if err := errs.Err(); err != nil {
		return "", err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: digest,
		FullName:       in.FullName,
		Mode:           models.ModeHustler,
		IsActive:       true,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Email already registered")
		}

		existing, err = s.users.GetByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewConflictError("Username already taken")
		}

		return s.users.Create(ctx, user)
	})
	if err != nil {
		return "", err
	}

	return s.issue(user.ID)
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	if user == nil || !s.hasher.Verify(password, user.HashedPassword) {
		observability.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return "", models.NewInvalidCredentialsError()
	}
	return s.issue(user.ID)
}

func (s *AuthService) issue(userID uint) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}
