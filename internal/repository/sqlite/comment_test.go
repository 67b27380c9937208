package sqlite

import (
	"context"
	"testing"

	"github.com/tahmid/blog-engine/internal/model"
)

func TestCommentCreateAndListByPost(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice@example.com", "Alice")
	bob := createTestUser(t, db.Users(), "bob@example.com", "Bob")
	posts := db.Posts()
	comments := db.Comments()

	hello := createTestPost(t, posts, alice.ID, "Hello")
	other := createTestPost(t, posts, alice.ID, "Other")

	first := &model.Comment{PostID: hello.ID, AuthorID: alice.ID, Body: "Nice!"}
	if err := comments.Create(context.Background(), first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("Create() did not set comment.ID")
	}

	second := &model.Comment{PostID: hello.ID, AuthorID: bob.ID, Body: "Agreed."}
	if err := comments.Create(context.Background(), second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	stray := &model.Comment{PostID: other.ID, AuthorID: bob.ID, Body: "Unrelated."}
	if err := comments.Create(context.Background(), stray); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Listing must return exactly the post's own comments, oldest first.
	got, err := comments.ListByPost(context.Background(), hello.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByPost() returned %d comments, want 2", len(got))
	}
	if got[0].Body != "Nice!" || got[1].Body != "Agreed." {
		t.Errorf("ListByPost() order = %q, %q", got[0].Body, got[1].Body)
	}
	if got[0].AuthorName != "Alice" || got[1].AuthorName != "Bob" {
		t.Errorf("author names = %q, %q", got[0].AuthorName, got[1].AuthorName)
	}
}

func TestCommentCreate_DanglingPostFails(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice@example.com", "Alice")

	c := &model.Comment{PostID: 999, AuthorID: alice.ID, Body: "into the void"}
	if err := db.Comments().Create(context.Background(), c); err == nil {
		t.Fatal("Create() should fail for a nonexistent post")
	}
}

func TestCommentListByPost_Empty(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db.Users(), "alice@example.com", "Alice")
	post := createTestPost(t, db.Posts(), alice.ID, "Hello")

	got, err := db.Comments().ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListByPost() on fresh post returned %d comments", len(got))
	}
}
