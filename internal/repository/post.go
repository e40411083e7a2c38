package repository

import (
	"context"

	"hustlehub/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, offset, limit int) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementLikes(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := conn(ctx, r.db).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := conn(ctx, r.db).First(&post, id).Error; err != nil {
		return nil, lookupErr(err, "Post", id)
	}
	return &post, nil
}

// List returns posts newest first.
func (r *postRepository) List(ctx context.Context, offset, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	if err := conn(ctx, r.db).Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := conn(ctx, r.db).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// IncrementLikes bumps likes_count in a single statement so concurrent likes are never lost.
func (r *postRepository) IncrementLikes(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1"))
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
