// Package repository defines the persistence interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/tahmid/blog-engine/internal/model"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields
	// apperror.ErrConflict and no row.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// PostRepository persists blog posts.
type PostRepository interface {
	// Create inserts a new post. A duplicate title yields
	// apperror.ErrConflict and no row.
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// List returns all posts, newest first, with author names joined in.
	List(ctx context.Context) ([]model.Post, error)
	// Update overwrites title, subtitle, body, and image URL. The date
	// column is never touched.
	Update(ctx context.Context, post *model.Post) error
	// Delete removes a post; its comments cascade away with it.
	Delete(ctx context.Context, id int64) error
}

// CommentRepository persists comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost returns the comments of one post, oldest first, with
	// author names joined in.
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}
