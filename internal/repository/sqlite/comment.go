package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tahmid/blog-engine/internal/model"
	"github.com/tahmid/blog-engine/internal/repository"
)

// CommentStore implements repository.CommentRepository.
type CommentStore struct {
	conn *sql.DB
}

var _ repository.CommentRepository = (*CommentStore)(nil)

// Create inserts a new comment. The foreign keys guarantee the referenced
// post and author exist; a dangling post ID fails the insert.
func (s *CommentStore) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, body, created_at)
		 VALUES (?, ?, ?, ?)`,
		comment.PostID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	comment.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new comment id: %w", err)
	}
	return nil
}

// ListByPost returns exactly the comments whose post_id matches, oldest
// first, with author names joined in.
func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, c.body, c.created_at, u.name
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}
