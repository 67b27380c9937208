package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/model"
)

// In-memory repository fakes shared by the tests in this package. They mirror
// the sqlite implementations' error contracts (Conflict on duplicates,
// NotFound on missing rows) without any I/O.

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("email already registered")
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
}

type mockPostRepo struct {
	posts  map[int64]*model.Post
	nextID int64
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int64]*model.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	for _, p := range m.posts {
		if p.Title == post.Title {
			return apperror.Conflict("a post with this title already exists")
		}
	}
	m.nextID++
	post.ID = m.nextID
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id int64) (*model.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	result := *p
	return &result, nil
}

func (m *mockPostRepo) List(_ context.Context) ([]model.Post, error) {
	result := make([]model.Post, 0, len(m.posts))
	// Newest first by ID, matching the sqlite ordering closely enough
	// for these tests.
	for id := m.nextID; id >= 1; id-- {
		if p, ok := m.posts[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPostRepo) Update(_ context.Context, post *model.Post) error {
	stored, ok := m.posts[post.ID]
	if !ok {
		return apperror.NotFound("post", post.ID)
	}
	for _, p := range m.posts {
		if p.ID != post.ID && p.Title == post.Title {
			return apperror.Conflict("a post with this title already exists")
		}
	}
	// The date column is never written by updates.
	date := stored.Date
	updated := *post
	updated.Date = date
	m.posts[post.ID] = &updated
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(m.posts, id)
	return nil
}

type mockCommentRepo struct {
	comments []model.Comment
	nextID   int64
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *mockCommentRepo) ListByPost(_ context.Context, postID int64) ([]model.Comment, error) {
	result := []model.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	svc := NewAuthService(repo, auth.NewPasswordServiceWithCost(bcrypt.MinCost), testLogger())
	return svc, repo
}

func newTestBlogService(t *testing.T, adminID int64) (*BlogService, *mockPostRepo, *mockCommentRepo) {
	t.Helper()
	posts := newMockPostRepo()
	comments := newMockCommentRepo()
	svc := NewBlogService(posts, comments, auth.AdminPolicy{AdminID: adminID}, testLogger())
	return svc, posts, comments
}
