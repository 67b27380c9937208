// Package handler contains the HTTP layer: it parses requests, consults the
// services, and renders HTML. All domain decisions live in the services; this
// package only translates between HTTP and domain values.
package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/form"
	"github.com/tahmid/blog-engine/internal/model"
	"github.com/tahmid/blog-engine/internal/service"
	"github.com/tahmid/blog-engine/internal/web"
)

// page is the data every template renders from. View-specific fields are
// simply left zero when a page doesn't use them.
type page struct {
	Title    string
	User     *model.User
	IsAdmin  bool
	Notice   string
	Message  string
	Posts    []model.Post
	Post     *model.Post
	Comments []model.Comment
	Form     map[string]string
	Errors   form.Errors
}

// Renderer owns the parsed template set and the error-to-page mapping shared
// by all handlers.
type Renderer struct {
	tmpl   *template.Template
	users  *service.AuthService
	admin  auth.AdminPolicy
	logger *slog.Logger
}

// NewRenderer parses the embedded templates.
func NewRenderer(users *service.AuthService, admin auth.AdminPolicy, logger *slog.Logger) (*Renderer, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		// Post and comment bodies hold rich-text markup produced by the
		// editor; it is stored and rendered as-is.
		"raw": func(s string) template.HTML { return template.HTML(s) },
	})
	tmpl, err := tmpl.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, users: users, admin: admin, logger: logger}, nil
}

// newPage builds the base template data for a request: the current user (if
// the session resolves to one), their admin status for the nav, and any
// notice carried in the query string.
func (rd *Renderer) newPage(r *http.Request, title string) page {
	p := page{
		Title:  title,
		Notice: r.URL.Query().Get("notice"),
		Form:   map[string]string{},
		Errors: form.Errors{},
	}

	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		// A valid session for a since-deleted user renders as anonymous.
		if user, err := rd.users.UserByID(r.Context(), userID); err == nil {
			p.User = user
			p.IsAdmin = rd.admin.Allows(user.ID)
		}
	}
	return p
}

// render writes a template with the given status. Template execution errors
// can only be logged at this point — the headers are already gone.
func (rd *Renderer) render(w http.ResponseWriter, status int, name string, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := rd.tmpl.ExecuteTemplate(w, name, p); err != nil {
		rd.logger.Error("rendering template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

// renderError maps a domain error to an HTML error page. Unknown errors
// become a generic 500 with the details logged, never shown.
func (rd *Renderer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	p := rd.newPage(r, "")

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			p.Title = "Not Found"
			p.Message = appErr.Message
			rd.render(w, http.StatusNotFound, "error.html", p)
			return
		case errors.Is(err, apperror.ErrForbidden):
			p.Title = "Forbidden"
			p.Message = appErr.Message
			rd.render(w, http.StatusForbidden, "error.html", p)
			return
		case errors.Is(err, apperror.ErrConflict):
			p.Title = "Conflict"
			p.Message = appErr.Message
			rd.render(w, http.StatusConflict, "error.html", p)
			return
		case errors.Is(err, apperror.ErrUnauthorized):
			p.Title = "Unauthorized"
			p.Message = appErr.Message
			rd.render(w, http.StatusUnauthorized, "error.html", p)
			return
		}
	}

	rd.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	p.Title = "Something went wrong"
	p.Message = "An internal error occurred."
	rd.render(w, http.StatusInternalServerError, "error.html", p)
}
