package handler

import (
	"net/http"

	"github.com/ChristopherDonnelly/message-board/internal/logger"
	"github.com/ChristopherDonnelly/message-board/internal/middleware"
)

// Enter shows the name form, or forwards to the board if a session is bound.
func (h *Handler) Enter(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAuth(r).Authenticated() {
		http.Redirect(w, r, "/board", http.StatusSeeOther)
		return
	}
	h.renderTemplate(w, r, indexTemplate, nil, errorFromQuery(r))
}

// Login binds a new session for the submitted name. A session the client
// already carried is cleared so re-entering doesn't leave it behind.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	token, err := h.access.Login(r.Context(), r.PostFormValue("name"))
	if err != nil {
		if isStorage(err) {
			logger.FromContext(r.Context()).Error("login failed", "error", err)
		} else {
			logger.FromContext(r.Context()).Debug("login rejected", "error", err)
		}
		redirectWithError(w, r, "/", err)
		return
	}

	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.access.Logout(r.Context(), cookie.Value); err != nil {
			logger.FromContext(r.Context()).Warn("failed to clear previous session", "error", err)
		}
	}

	middleware.SetSessionCookie(w, token, h.sessionTTL, h.secureCookies)
	http.Redirect(w, r, "/board", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.access.Logout(r.Context(), cookie.Value); err != nil {
			logger.FromContext(r.Context()).Error("failed to clear session", "error", err)
		}
	}
	middleware.ClearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
