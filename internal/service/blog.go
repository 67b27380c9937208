package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/model"
	"github.com/tahmid/blog-engine/internal/repository"
)

// PostInput carries the already-validated authoring form fields into the
// service layer.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

// PostPage is a post together with its comments, as rendered by the post
// detail view.
type PostPage struct {
	Post     *model.Post
	Comments []model.Comment
}

// BlogService handles posts and comments. Every mutating post operation
// evaluates the admin policy before touching the store, so a forbidden call
// has no side effect.
type BlogService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	admin    auth.AdminPolicy
	logger   *slog.Logger

	// now is stubbed in tests to pin the creation date stamp.
	now func() time.Time
}

// NewBlogService creates a BlogService with its injected dependencies.
func NewBlogService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	admin auth.AdminPolicy,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		posts:    posts,
		comments: comments,
		admin:    admin,
		logger:   logger,
		now:      time.Now,
	}
}

// ListPosts returns all posts for the front page, newest first.
func (s *BlogService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/blog: listing posts: %w", err)
	}
	return posts, nil
}

// GetPost returns one post and exactly its own comments.
// Returns apperror.ErrNotFound for an unknown id.
func (s *BlogService) GetPost(ctx context.Context, id int64) (*PostPage, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/blog: listing comments for post %d: %w", id, err)
	}

	return &PostPage{Post: post, Comments: comments}, nil
}

// CreatePost persists a new post owned by the actor, stamped with the
// current date. Non-admin actors are refused before anything is written.
func (s *BlogService) CreatePost(ctx context.Context, actorID int64, in PostInput) (*model.Post, error) {
	if !s.admin.Allows(actorID) {
		return nil, apperror.Forbidden("only the admin can create posts")
	}

	post := &model.Post{
		AuthorID: actorID,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Date:     s.now().Format(model.DateFormat),
		Body:     in.Body,
		ImageURL: in.ImageURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.String("title", post.Title),
	)
	return post, nil
}

// UpdatePost overwrites a post's mutable fields. The creation date is
// deliberately left untouched.
func (s *BlogService) UpdatePost(ctx context.Context, actorID, postID int64, in PostInput) (*model.Post, error) {
	if !s.admin.Allows(actorID) {
		return nil, apperror.Forbidden("only the admin can edit posts")
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.Body = in.Body
	post.ImageURL = in.ImageURL
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post edited", slog.Int64("postID", post.ID))
	return post, nil
}

// DeletePost removes a post and, by cascade, its comments.
func (s *BlogService) DeletePost(ctx context.Context, actorID, postID int64) error {
	if !s.admin.Allows(actorID) {
		return apperror.Forbidden("only the admin can delete posts")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.Int64("postID", postID))
	return nil
}

// AddComment attaches a comment by the actor to a post. Any authenticated
// user may comment; the post must exist.
func (s *BlogService) AddComment(ctx context.Context, actorID, postID int64, body string) (*model.Comment, error) {
	// Look the post up first so a dangling id yields a clean NotFound
	// instead of a foreign-key failure.
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: actorID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("service/blog: adding comment to post %d: %w", postID, err)
	}

	s.logger.Info("comment added",
		slog.Int64("postID", postID),
		slog.Int64("userID", actorID),
	)
	return comment, nil
}
