package repository

import (
	"context"
	"errors"
	"strings"

	"hustlehub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	ListOthers(ctx context.Context, excludeID uint, mode *models.Mode, offset, limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetByUsername returns nil, nil when the name is free.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return duplicateUserError(err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// duplicateUserError names the colliding field when the driver reports it.
func duplicateUserError(err error) *models.AppError {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "username"):
		return models.NewConflictError("Username already taken")
	case strings.Contains(msg, "email"):
		return models.NewConflictError("Email already registered")
	default:
		return models.NewConflictError("User already exists")
	}
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := conn(ctx, r.db).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return duplicateUserError(err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// ListOthers lists users except excludeID, optionally only those in mode, oldest accounts first.
func (r *userRepository) ListOthers(ctx context.Context, excludeID uint, mode *models.Mode, offset, limit int) ([]models.User, error) {
	q := conn(ctx, r.db).Where("id <> ?", excludeID)
	if mode != nil {
		q = q.Where("mode = ?", *mode)
	}

	var users []models.User
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
