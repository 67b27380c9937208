package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/model"
	"github.com/tahmid/blog-engine/internal/repository"
)

// PostStore implements repository.PostRepository.
type PostStore struct {
	conn *sql.DB
}

var _ repository.PostRepository = (*PostStore)(nil)

// Create inserts a new post. A duplicate title surfaces as a Conflict with
// no row written.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO blog_posts (author_id, title, subtitle, date, body, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImageURL,
		post.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return apperror.Conflict("a post with this title already exists")
		}
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	post.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new post id: %w", err)
	}
	return nil
}

// GetByID retrieves one post with its author's name joined in.
func (s *PostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := s.conn.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.image_url, p.created_at, u.name
		 FROM blog_posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`,
		id,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImageURL, &p.CreatedAt, &p.AuthorName)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}
	return &p, nil
}

// List returns every post, newest first.
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.image_url, p.created_at, u.name
		 FROM blog_posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Subtitle, &p.Date,
			&p.Body, &p.ImageURL, &p.CreatedAt, &p.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update overwrites the mutable fields of a post. The date column keeps its
// original creation stamp. A retitle that collides with another post's title
// surfaces as a Conflict.
func (s *PostStore) Update(ctx context.Context, post *model.Post) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE blog_posts
		 SET title = ?, subtitle = ?, body = ?, image_url = ?
		 WHERE id = ?`,
		post.Title,
		post.Subtitle,
		post.Body,
		post.ImageURL,
		post.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return apperror.Conflict("a post with this title already exists")
		}
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("post", post.ID)
	}
	return nil
}

// Delete removes a post. The ON DELETE CASCADE on comments.post_id removes
// its comments in the same statement, so no orphan rows remain.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("post", id)
	}
	return nil
}
