package sqlite

import (
	"context"
	"testing"

	"github.com/tahmid/blog-engine/internal/model"
)

// newTestDB returns a DB backed by an in-memory database that vanishes when
// the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, users *UserStore, email, name string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehashfakehash",
		Name:         name,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

// createTestPost inserts a post and fails the test on error.
func createTestPost(t *testing.T, posts *PostStore, authorID int64, title string) *model.Post {
	t.Helper()
	post := &model.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "a subtitle",
		Date:     "January 2, 2006",
		Body:     "<p>body</p>",
		ImageURL: "https://example.com/img.png",
	}
	if err := posts.Create(context.Background(), post); err != nil {
		t.Fatalf("creating test post: %v", err)
	}
	return post
}
