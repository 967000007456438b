package setup

import (
	"errors"
	"fmt"

	"github.com/ChristopherDonnelly/message-board/internal/config"
	"github.com/ChristopherDonnelly/message-board/internal/handler"
	"github.com/ChristopherDonnelly/message-board/internal/markdown"
	"github.com/ChristopherDonnelly/message-board/internal/middleware"
	"github.com/ChristopherDonnelly/message-board/internal/service"
	"github.com/ChristopherDonnelly/message-board/internal/session"
	"github.com/ChristopherDonnelly/message-board/internal/storage/pg"
	"github.com/ChristopherDonnelly/message-board/internal/storage/redis"
	"github.com/ChristopherDonnelly/message-board/internal/validation"
	"github.com/ChristopherDonnelly/message-board/templates"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config     *config.Config
	Storage    *pg.Storage
	Sessions   *redis.SessionStore
	Gate       *session.Gate
	Session    *middleware.Session
	Reconciler *service.Reconciler
	Handler    *handler.Handler
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	sessions, err := redis.New(cfg)
	if err != nil {
		_ = storage.Cleanup()
		return nil, err
	}

	tmpls, err := handler.LoadTemplates(templates.FS)
	if err != nil {
		_ = storage.Cleanup()
		_ = sessions.Close()
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	gate := session.New(sessions, session.NewJwt(cfg.Private.SessionSecret), cfg.Public.SessionTTL)
	validator := validation.New()

	identity := service.NewIdentity(storage, validator)
	content := service.NewContent(storage, validator)
	board := service.NewBoard(storage)
	access := service.NewAccess(identity, content, board, gate)

	h := handler.New(
		access,
		tmpls,
		markdown.New(),
		map[string]handler.Pinger{"postgres": storage, "redis": sessions},
		cfg.Public.SecureCookies,
		cfg.Public.SessionTTL,
	)

	return &Dependencies{
		Config:     cfg,
		Storage:    storage,
		Sessions:   sessions,
		Gate:       gate,
		Session:    middleware.NewSession(gate, cfg.Public.SessionTTL, cfg.Public.SecureCookies),
		Reconciler: service.NewReconciler(storage),
		Handler:    h,
	}, nil
}

// Cleanup closes every connection opened by SetupDependencies.
func (d *Dependencies) Cleanup() error {
	return errors.Join(d.Sessions.Close(), d.Storage.Cleanup())
}
