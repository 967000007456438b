package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
	"github.com/ChristopherDonnelly/message-board/internal/middleware"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

type CommonTemplateData struct {
	User      domain.AuthContext
	CSRFToken string
	Error     string
}

type boardPage struct {
	Messages    []messageView
	Unavailable bool
}

type messageView struct {
	Id         domain.MsgId
	AuthorName domain.UserName
	Text       template.HTML
	CreatedAt  time.Time
	Comments   []commentView
}

type commentView struct {
	AuthorName domain.UserName
	Text       template.HTML
	CreatedAt  time.Time
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any, errMsg string) {
	tmpl, ok := h.templates[name]
	if !ok {
		logger.FromContext(r.Context()).Error("template not found", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	wrapped := TemplateData{
		Data: data,
		Common: CommonTemplateData{
			User:      middleware.GetAuth(r),
			CSRFToken: middleware.GetCSRFTokenFromContext(r),
			Error:     errMsg,
		},
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.FromContext(r.Context()).Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderBoard(board []*domain.BoardMessage) []messageView {
	views := make([]messageView, 0, len(board))
	for _, msg := range board {
		view := messageView{
			Id:         msg.Id,
			AuthorName: msg.AuthorName,
			Text:       h.textProcessor.Render(msg.Text),
			CreatedAt:  msg.CreatedAt,
			Comments:   make([]commentView, 0, len(msg.Comments)),
		}
		for _, c := range msg.Comments {
			view.Comments = append(view.Comments, commentView{
				AuthorName: c.AuthorName,
				Text:       h.textProcessor.Render(c.Text),
				CreatedAt:  c.CreatedAt,
			})
		}
		views = append(views, view)
	}
	return views
}

// errorFromQuery turns the ?err= code of a redirect back into display text.
func errorFromQuery(r *http.Request) string {
	return internal_errors.MessageFor(r.URL.Query().Get("err"))
}

// redirectWithError sends the client to target carrying err's code.
func redirectWithError(w http.ResponseWriter, r *http.Request, target string, err error) {
	http.Redirect(w, r, target+"?err="+internal_errors.CodeOf(err), http.StatusSeeOther)
}
