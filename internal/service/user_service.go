package service

import (
	"context"

	"hustlehub/internal/database"
	"hustlehub/internal/models"
	"hustlehub/internal/repository"
	"hustlehub/internal/validation"
)

// UserService owns profile edits and the member directory.
type UserService struct {
	users repository.UserRepository
	tx    database.Transactor
}

// ProfilePatch carries the profile fields present in a request. Nil means "leave unchanged".
type ProfilePatch struct {
	Bio          *string
	Skills       *[]string
	Interests    *[]string
	ProfileImage *string
}

func NewUserService(users repository.UserRepository, tx database.Transactor) *UserService {
	return &UserService{users: users, tx: tx}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies patch to the user's stored profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.User, error) {
	var updated *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if patch.Bio != nil {
			user.Bio = *patch.Bio
		}
		if patch.Skills != nil {
			user.Skills = listOf(*patch.Skills)
		}
		if patch.Interests != nil {
			user.Interests = listOf(*patch.Interests)
		}
		if patch.ProfileImage != nil {
			user.ProfileImage = *patch.ProfileImage
		}

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetMode switches the user between hustler and builder.
func (s *UserService) SetMode(ctx context.Context, userID uint, mode string) (*models.User, error) {
	var errs validation.Errors
	errs.Check("mode", validation.ValidateMode(mode))
	if err := errs.Err(); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.Mode = models.Mode(mode)
		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListNetwork lists other members. An unknown mode value is ignored rather than rejected.
func (s *UserService) ListNetwork(ctx context.Context, actorID uint, mode string, page Page) ([]models.User, error) {
	page = page.Normalize()

	var filter *models.Mode
	if m := models.Mode(mode); m.Valid() {
		filter = &m
	}

	users, err := s.users.ListOthers(ctx, actorID, filter, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// listOf copies a request list into a stored list, keeping empty distinct from absent.
func listOf(in []string) models.StringList {
	out := make(models.StringList, len(in))
	copy(out, in)
	return out
}
