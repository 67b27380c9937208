package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tahmid/blog-engine/internal/apperror"
	"github.com/tahmid/blog-engine/internal/auth"
	"github.com/tahmid/blog-engine/internal/form"
	"github.com/tahmid/blog-engine/internal/service"
)

// AuthHandler serves the registration, login, and logout routes.
type AuthHandler struct {
	render *Renderer
	svc    *service.AuthService
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(render *Renderer, svc *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{render: render, svc: svc, tokens: tokens, logger: logger}
}

// setSession issues a session token for the user and stores it in the
// HttpOnly cookie. HttpOnly keeps scripts away from the token; SameSite=Lax
// keeps it off cross-site POSTs.
func (h *AuthHandler) setSession(w http.ResponseWriter, userID int64) error {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.tokens.Lifetime()),
	})
	return nil
}

func clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// HandleRegisterForm renders the sign-up form.
//
// HTTP: GET /register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render.render(w, http.StatusOK, "register.html", h.render.newPage(r, "Register"))
}

// HandleRegister creates an account, logs the new user in, and redirects
// home. A duplicate email redirects to the login form with a notice instead
// of creating anything.
//
// HTTP: POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	f := form.RegisterFromRequest(r)

	if errs := form.Validate(f); len(errs) > 0 {
		p := h.render.newPage(r, "Register")
		p.Form = map[string]string{"email": f.Email, "name": f.Name}
		p.Errors = errs
		h.render.render(w, http.StatusUnprocessableEntity, "register.html", p)
		return
	}

	user, err := h.svc.Register(r.Context(), f.Email, f.Password, f.Name)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			notice := url.QueryEscape("You've already signed up with that email, log in instead.")
			http.Redirect(w, r, "/login?notice="+notice+"&email="+url.QueryEscape(f.Email), http.StatusSeeOther)
			return
		}
		h.render.renderError(w, r, err)
		return
	}

	if err := h.setSession(w, user.ID); err != nil {
		h.render.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLoginForm renders the login form, pre-filling the email when a
// redirect carried one.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	p := h.render.newPage(r, "Log In")
	p.Form = map[string]string{"email": r.URL.Query().Get("email")}
	h.render.render(w, http.StatusOK, "login.html", p)
}

// HandleLogin verifies credentials and establishes the session. Failures
// re-render the form with one uniform notice regardless of whether the email
// or the password was wrong.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	f := form.LoginFromRequest(r)

	if errs := form.Validate(f); len(errs) > 0 {
		p := h.render.newPage(r, "Log In")
		p.Form = map[string]string{"email": f.Email}
		p.Errors = errs
		h.render.render(w, http.StatusUnprocessableEntity, "login.html", p)
		return
	}

	user, err := h.svc.Login(r.Context(), f.Email, f.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			p := h.render.newPage(r, "Log In")
			p.Form = map[string]string{"email": f.Email}
			p.Notice = "Invalid email or password."
			h.render.render(w, http.StatusUnprocessableEntity, "login.html", p)
			return
		}
		h.render.renderError(w, r, err)
		return
	}

	if err := h.setSession(w, user.ID); err != nil {
		h.render.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout tears the session down. The route is behind RequireUser, so
// an anonymous caller never reaches it.
//
// HTTP: GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
