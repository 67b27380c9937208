package handler

import "net/http"

// PageHandler serves the static informational pages.
type PageHandler struct {
	render *Renderer
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(render *Renderer) *PageHandler {
	return &PageHandler{render: render}
}

// HandleAbout serves GET /about.
func (h *PageHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.render.render(w, http.StatusOK, "about.html", h.render.newPage(r, "About Us"))
}

// HandleContact serves GET /contact.
func (h *PageHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	h.render.render(w, http.StatusOK, "contact.html", h.render.newPage(r, "Contact"))
}
