package service

import (
	"context"

	"hustlehub/internal/database"
	"hustlehub/internal/models"
	"hustlehub/internal/repository"
	"hustlehub/internal/validation"
)

// PostService manages the short-form feed.
type PostService struct {
	posts repository.PostRepository
	tx    database.Transactor
}

func NewPostService(posts repository.PostRepository, tx database.Transactor) *PostService {
	return &PostService{posts: posts, tx: tx}
}

func validateContent(content string) error {
	var errs validation.Errors
	errs.Check("content", validation.ValidateContent(content))
	return errs.Err()
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint, content string) (*models.Post, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	post := &models.Post{AuthorID: authorID, Content: content}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, page Page) ([]models.Post, error) {
	page = page.Normalize()
	posts, err := s.posts.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) authored(ctx context.Context, actorID, id uint, action string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to " + action + " this post")
	}
	return post, nil
}

// UpdatePost replaces the content of a post the actor wrote.
func (s *PostService) UpdatePost(ctx context.Context, actorID, id uint, content string) (*models.Post, error) {
	var updated *models.Post
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		post, err := s.authored(ctx, actorID, id, "update")
		if err != nil {
			return err
		}
		if err := validateContent(content); err != nil {
			return err
		}
		post.Content = content
		if err := s.posts.Update(ctx, post); err != nil {
			return err
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, actorID, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.authored(ctx, actorID, id, "delete"); err != nil {
			return err
		}
		return s.posts.Delete(ctx, id)
	})
}

// LikePost increments the like counter and returns the post as stored afterwards.
// Repeat likes by the same user all count.
func (s *PostService) LikePost(ctx context.Context, id uint) (*models.Post, error) {
	if err := s.posts.IncrementLikes(ctx, id); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}
