package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/form"
	"github.com/tahmid/blog-engine/internal/service"
)

// BlogHandler serves the post and comment routes.
type BlogHandler struct {
	render *Renderer
	svc    *service.BlogService
	logger *slog.Logger
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(render *Renderer, svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{render: render, svc: svc, logger: logger}
}

// postID parses the {id} route param. A malformed id is treated the same as
// a missing post.
func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("post", id)
	}
	return id, nil
}

// HandleIndex lists all posts.
//
// HTTP: GET /
func (h *BlogHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListPosts(r.Context())
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	p := h.render.newPage(r, "The Blog")
	p.Posts = posts
	h.render.render(w, http.StatusOK, "index.html", p)
}

// HandleShowPost renders one post with its comments.
//
// HTTP: GET /post/{id}
func (h *BlogHandler) HandleShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	detail, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	p := h.render.newPage(r, detail.Post.Title)
	p.Post = detail.Post
	p.Comments = detail.Comments
	h.render.render(w, http.StatusOK, "post.html", p)
}

// HandleAddComment attaches a comment to a post and redisplays it. The route
// is behind RequireUser; anonymous callers were already redirected to login.
//
// HTTP: POST /post/{id}
func (h *BlogHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())

	f := form.CommentFromRequest(r)
	if errs := form.Validate(f); len(errs) > 0 {
		detail, err := h.svc.GetPost(r.Context(), id)
		if err != nil {
			h.render.renderError(w, r, err)
			return
		}
		p := h.render.newPage(r, detail.Post.Title)
		p.Post = detail.Post
		p.Comments = detail.Comments
		p.Form = map[string]string{"body": f.Body}
		p.Errors = errs
		h.render.render(w, http.StatusUnprocessableEntity, "post.html", p)
		return
	}

	if _, err := h.svc.AddComment(r.Context(), userID, id, f.Body); err != nil {
		h.render.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// HandleNewPostForm renders the empty authoring form, admins only.
//
// HTTP: GET /new-post
func (h *BlogHandler) HandleNewPostForm(w http.ResponseWriter, r *http.Request) {
	p := h.render.newPage(r, "New Post")
	if !p.IsAdmin {
		h.render.renderError(w, r, apperror.Forbidden("only the admin can create posts"))
		return
	}
	h.render.render(w, http.StatusOK, "make-post.html", p)
}

// HandleCreatePost persists a new post and redirects home.
//
// HTTP: POST /new-post
func (h *BlogHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	f := form.PostFromRequest(r)
	if errs := form.Validate(f); len(errs) > 0 {
		p := h.render.newPage(r, "New Post")
		p.Form = postFormValues(f)
		p.Errors = errs
		h.render.render(w, http.StatusUnprocessableEntity, "make-post.html", p)
		return
	}

	_, err := h.svc.CreatePost(r.Context(), userID, service.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImageURL: f.ImageURL,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			p := h.render.newPage(r, "New Post")
			p.Form = postFormValues(f)
			p.Notice = "A post with this title already exists."
			h.render.render(w, http.StatusUnprocessableEntity, "make-post.html", p)
			return
		}
		h.render.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleEditPostForm renders the authoring form pre-filled with the post's
// current fields, admins only.
//
// HTTP: GET /edit-post/{id}
func (h *BlogHandler) HandleEditPostForm(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}

	p := h.render.newPage(r, "Edit Post")
	if !p.IsAdmin {
		h.render.renderError(w, r, apperror.Forbidden("only the admin can edit posts"))
		return
	}

	detail, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}
	p.Form = map[string]string{
		"title":    detail.Post.Title,
		"subtitle": detail.Post.Subtitle,
		"img_url":  detail.Post.ImageURL,
		"body":     detail.Post.Body,
	}
	h.render.render(w, http.StatusOK, "make-post.html", p)
}

// HandleEditPost applies an edit and redirects to the post's view. The
// creation date is never overwritten.
//
// HTTP: POST /edit-post/{id}
func (h *BlogHandler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())

	f := form.PostFromRequest(r)
	if errs := form.Validate(f); len(errs) > 0 {
		p := h.render.newPage(r, "Edit Post")
		p.Form = postFormValues(f)
		p.Errors = errs
		h.render.render(w, http.StatusUnprocessableEntity, "make-post.html", p)
		return
	}

	_, err = h.svc.UpdatePost(r.Context(), userID, id, service.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Body:     f.Body,
		ImageURL: f.ImageURL,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			p := h.render.newPage(r, "Edit Post")
			p.Form = postFormValues(f)
			p.Notice = "A post with this title already exists."
			h.render.render(w, http.StatusUnprocessableEntity, "make-post.html", p)
			return
		}
		h.render.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// HandleDeletePost removes a post (comments cascade) and redirects home.
//
// HTTP: GET /delete/{id}
func (h *BlogHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.renderError(w, r, err)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.svc.DeletePost(r.Context(), userID, id); err != nil {
		h.render.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func postFormValues(f form.PostForm) map[string]string {
	return map[string]string{
		"title":    f.Title,
		"subtitle": f.Subtitle,
		"img_url":  f.ImageURL,
		"body":     f.Body,
	}
}
