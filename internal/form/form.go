// Package form holds the declarative input schemas for every HTML form and a
// generic validation routine over them. Validation here is purely syntactic
// (presence, length, URL/email shape); uniqueness and cross-entity checks are
// the store's responsibility at write time.
package form

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PostForm is the authoring form for creating and editing posts.
type PostForm struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	ImageURL string `validate:"required,url,max=250"`
	Body     string `validate:"required"`
}

// RegisterForm is the account sign-up form.
type RegisterForm struct {
	Email    string `validate:"required,email,max=250"`
	Password string `validate:"required,max=72"`
	Name     string `validate:"required,max=250"`
}

// LoginForm is the credential form.
type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// CommentForm is the single-field comment box on a post page.
type CommentForm struct {
	Body string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors maps a field name to the message displayed next to it.
type Errors map[string]string

// Validate runs the schema tags of v and returns one message per failing
// field. An empty map means the input is valid.
func Validate(v any) Errors {
	errs := Errors{}

	err := validate.Struct(v)
	if err == nil {
		return errs
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "invalid submission"
		return errs
	}

	for _, fe := range ve {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url":
		return "Must be a well-formed URL."
	case "email":
		return "Must be a valid email address."
	case "max":
		return "Too long (limit " + fe.Param() + " characters)."
	default:
		return "Invalid value."
	}
}

// trimmed reads a form value with surrounding whitespace removed.
func trimmed(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// PostFromRequest binds the authoring form fields. The body keeps its exact
// submitted markup; only the scalar fields are trimmed.
func PostFromRequest(r *http.Request) PostForm {
	return PostForm{
		Title:    trimmed(r, "title"),
		Subtitle: trimmed(r, "subtitle"),
		ImageURL: trimmed(r, "img_url"),
		Body:     r.FormValue("body"),
	}
}

// RegisterFromRequest binds the registration form fields. Email is lowercased
// so lookups are case-insensitive.
func RegisterFromRequest(r *http.Request) RegisterForm {
	return RegisterForm{
		Email:    strings.ToLower(trimmed(r, "email")),
		Password: r.FormValue("password"),
		Name:     trimmed(r, "name"),
	}
}

// LoginFromRequest binds the login form fields.
func LoginFromRequest(r *http.Request) LoginForm {
	return LoginForm{
		Email:    strings.ToLower(trimmed(r, "email")),
		Password: r.FormValue("password"),
	}
}

// CommentFromRequest binds the comment form field.
func CommentFromRequest(r *http.Request) CommentForm {
	return CommentForm{
		Body: strings.TrimSpace(r.FormValue("body")),
	}
}
