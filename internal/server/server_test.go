package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/blog-engine/internal/auth"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := Config{
		Port:            0,
		DBPath:          filepath.Join(t.TempDir(), "test.db"),
		SessionSecret:   "test-secret-0123456789abcdef",
		SessionLifetime: time.Hour,
		AdminUserID:     1,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func get(t *testing.T, srv *Server, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, srv *Server, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

// sessionCookie pulls the session cookie out of a response, failing the test
// if none was set.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// register signs a user up and returns their session cookie. The first call
// per server creates user 1, the admin.
func register(t *testing.T, srv *Server, email, name string) *http.Cookie {
	t.Helper()
	w := postForm(t, srv, "/register", url.Values{
		"email":    {email},
		"password": {"secret-password"},
		"name":     {name},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	return sessionCookie(t, w)
}

func TestHomePageEmpty(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts yet.")
	assert.Contains(t, w.Body.String(), "Log In")
}

func TestStaticPages(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/about", "/contact"} {
		w := get(t, srv, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRegisterLogsUserIn(t *testing.T) {
	srv := newTestServer(t)

	cookie := register(t, srv, "alice@example.com", "Alice")

	w := get(t, srv, "/", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log Out (Alice)")
}

func TestRegisterDuplicateEmailRedirectsToLogin(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com", "Alice")

	w := postForm(t, srv, "/register", url.Values{
		"email":    {"alice@example.com"},
		"password": {"another-password"},
		"name":     {"Alice Again"},
	}, nil)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/login?"), "location %q", loc)
	assert.Contains(t, loc, "already+signed+up")
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	w := postForm(t, srv, "/register", url.Values{
		"email":    {"not-an-email"},
		"password": {""},
		"name":     {"Alice"},
	}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "valid email")
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com", "Alice")

	wrongPassword := postForm(t, srv, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"wrong"},
	}, nil)
	unknownEmail := postForm(t, srv, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"secret-password"},
	}, nil)

	// A bad password and an unknown email produce the same page, so the
	// response does not reveal which accounts exist.
	assert.Equal(t, http.StatusUnprocessableEntity, wrongPassword.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, unknownEmail.Code)
	assert.Contains(t, wrongPassword.Body.String(), "Invalid email or password.")
	assert.Contains(t, unknownEmail.Body.String(), "Invalid email or password.")
}

func TestLoginThenLogout(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com", "Alice")

	w := postForm(t, srv, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"secret-password"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(t, w)

	w = get(t, srv, "/logout", cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestAnonymousRedirectedToLogin(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/new-post", "/edit-post/1", "/delete/1", "/logout"} {
		w := get(t, srv, path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?"), path)
	}

	w := postForm(t, srv, "/post/1", url.Values{"body": {"hi"}}, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?"))
}

func TestFirstUserIsAdmin(t *testing.T) {
	srv := newTestServer(t)
	admin := register(t, srv, "alice@example.com", "Alice")
	other := register(t, srv, "bob@example.com", "Bob")

	w := get(t, srv, "/new-post", admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(t, srv, "/new-post", other)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostLifecycle(t *testing.T) {
	srv := newTestServer(t)
	admin := register(t, srv, "alice@example.com", "Alice")

	// Create.
	w := postForm(t, srv, "/new-post", url.Values{
		"title":    {"Hello World"},
		"subtitle": {"A first post"},
		"img_url":  {"https://example.com/hello.png"},
		"body":     {"<p>Welcome to the blog.</p>"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	w = get(t, srv, "/", nil)
	assert.Contains(t, w.Body.String(), "Hello World")
	assert.Contains(t, w.Body.String(), "Posted by Alice")

	// The body renders as markup, not escaped text.
	w = get(t, srv, "/post/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>Welcome to the blog.</p>")

	// Edit keeps the original date.
	before := dateLine(t, w.Body.String())
	w = postForm(t, srv, "/edit-post/1", url.Values{
		"title":    {"Hello Again"},
		"subtitle": {"A revised post"},
		"img_url":  {"https://example.com/hello.png"},
		"body":     {"<p>Revised.</p>"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/post/1", w.Header().Get("Location"))

	w = get(t, srv, "/post/1", nil)
	assert.Contains(t, w.Body.String(), "Hello Again")
	assert.Contains(t, w.Body.String(), "<p>Revised.</p>")
	assert.Equal(t, before, dateLine(t, w.Body.String()))

	// Delete.
	w = get(t, srv, "/delete/1", admin)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = get(t, srv, "/post/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// dateLine extracts the "Posted by ... on ..." line from a post page.
func dateLine(t *testing.T, body string) string {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, "Posted by") {
			return strings.TrimSpace(line)
		}
	}
	t.Fatal("no date line in page")
	return ""
}

func TestDuplicateTitleRejected(t *testing.T) {
	srv := newTestServer(t)
	admin := register(t, srv, "alice@example.com", "Alice")

	create := func() *httptest.ResponseRecorder {
		return postForm(t, srv, "/new-post", url.Values{
			"title":    {"Hello World"},
			"subtitle": {"A first post"},
			"img_url":  {"https://example.com/hello.png"},
			"body":     {"<p>Welcome.</p>"},
		}, admin)
	}

	require.Equal(t, http.StatusSeeOther, create().Code)

	w := create()
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "A post with this title already exists.")
}

func TestNonAdminCannotMutatePosts(t *testing.T) {
	srv := newTestServer(t)
	admin := register(t, srv, "alice@example.com", "Alice")
	other := register(t, srv, "bob@example.com", "Bob")

	w := postForm(t, srv, "/new-post", url.Values{
		"title":    {"Hello World"},
		"subtitle": {"A first post"},
		"img_url":  {"https://example.com/hello.png"},
		"body":     {"<p>Welcome.</p>"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = postForm(t, srv, "/new-post", url.Values{
		"title":    {"Bob's Post"},
		"subtitle": {"Nope"},
		"img_url":  {"https://example.com/no.png"},
		"body":     {"<p>No.</p>"},
	}, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(t, srv, "/delete/1", other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The post survived.
	w = get(t, srv, "/post/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommenting(t *testing.T) {
	srv := newTestServer(t)
	admin := register(t, srv, "alice@example.com", "Alice")
	reader := register(t, srv, "bob@example.com", "Bob")

	w := postForm(t, srv, "/new-post", url.Values{
		"title":    {"Hello World"},
		"subtitle": {"A first post"},
		"img_url":  {"https://example.com/hello.png"},
		"body":     {"<p>Welcome.</p>"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = postForm(t, srv, "/post/1", url.Values{"body": {"Great read!"}}, reader)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/post/1", w.Header().Get("Location"))

	w = get(t, srv, "/post/1", nil)
	assert.Contains(t, w.Body.String(), "Great read!")
	assert.Contains(t, w.Body.String(), "<strong>Bob</strong>")

	// An empty comment re-renders the post with the error inline.
	w = postForm(t, srv, "/post/1", url.Values{"body": {"   "}}, reader)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Hello World")
}

func TestCommentOnMissingPost(t *testing.T) {
	srv := newTestServer(t)
	reader := register(t, srv, "bob@example.com", "Bob")

	w := postForm(t, srv, "/post/99", url.Values{"body": {"hello?"}}, reader)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMissingAndMalformedPostID(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/post/99", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/post/abc", nil).Code)
}

func TestTamperedSessionIsAnonymous(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice@example.com", "Alice")

	forged := &http.Cookie{Name: auth.SessionCookie, Value: "not.a.token"}

	w := get(t, srv, "/", forged)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log In")

	w = get(t, srv, "/new-post", forged)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login?"))
}
