// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/loginform/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/loginform/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/loginform/internal/application"
	"github.com/ericfisherdev/loginform/internal/domain/model"
)

// maxFormBody caps the size of a submitted login form.
const maxFormBody = 16 << 10

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	loginSvc   *application.LoginService
	bannerHTML string
	logger     *slog.Logger
}

// NewHandler creates a Handler. banner is markdown; it is rendered and
// sanitized once here.
func NewHandler(loginSvc *application.LoginService, banner string, logger *slog.Logger) *Handler {
	return &Handler{
		loginSvc:   loginSvc,
		bannerHTML: RenderMarkdown(banner),
		logger:     logger,
	}
}

// LoginPage renders the empty login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	h.render(w, r, http.StatusOK, toLoginPageViewModel("", "", h.bannerHTML, token))
}

// SubmitLogin handles the form post and re-renders the page with the
// outcome's message box. The username is echoed back, the password never.
func (h *Handler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !validateCSRF(r) {
		h.logger.Warn("csrf validation failed", "remote_addr", r.RemoteAddr)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	username := r.PostFormValue("username")
	outcome, err := h.loginSvc.Attempt(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		h.logger.Error("failed to check credentials", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	switch {
	case outcome.IsValidation():
		status = http.StatusUnprocessableEntity
	case outcome == model.OutcomeInvalidCredentials:
		status = http.StatusUnauthorized
	}

	token := csrfToken(w, r)
	h.render(w, r, status, toLoginPageViewModel(outcome, username, h.bannerHTML, token))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page vm.LoginPageViewModel) {
	layout := templates.Layout(page.Title, templates.LoginPage(page))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render login page", "error", err)
	}
}
