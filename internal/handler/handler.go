package handler

import (
	"context"
	"html/template"
	"io/fs"
	"time"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	"github.com/ChristopherDonnelly/message-board/internal/markdown"
	"github.com/ChristopherDonnelly/message-board/templates"
)

type AccessController interface {
	Login(ctx context.Context, name domain.UserName) (string, error)
	Logout(ctx context.Context, token string) error
	ViewBoard(ctx context.Context, auth domain.AuthContext) ([]*domain.BoardMessage, error)
	PostMessage(ctx context.Context, auth domain.AuthContext, text domain.MsgText) (domain.Message, error)
	PostComment(ctx context.Context, auth domain.AuthContext, messageId domain.MsgId, text domain.CommentText) (domain.Comment, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	access        AccessController
	templates     map[string]*template.Template
	textProcessor *markdown.TextProcessor
	dependencies  map[string]Pinger
	secureCookies bool
	sessionTTL    time.Duration
}

func New(
	access AccessController,
	templates map[string]*template.Template,
	textProcessor *markdown.TextProcessor,
	dependencies map[string]Pinger,
	secureCookies bool,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		access:        access,
		templates:     templates,
		textProcessor: textProcessor,
		dependencies:  dependencies,
		secureCookies: secureCookies,
		sessionTTL:    sessionTTL,
	}
}

// Pages rendered by the handler. Each is parsed together with the base layout.
const (
	indexTemplate = "index.html"
	boardTemplate = "board.html"
)

// LoadTemplates parses every page in fsys against the base layout.
func LoadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	result := make(map[string]*template.Template)
	for _, page := range []string{indexTemplate, boardTemplate} {
		tmpl, err := template.New(templates.BaseTemplate).ParseFS(fsys, templates.BaseTemplate, page)
		if err != nil {
			return nil, err
		}
		result[page] = tmpl
	}
	return result, nil
}
