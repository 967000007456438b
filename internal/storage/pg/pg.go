// Package pg implements the board's persistence on PostgreSQL.
//
// Public methods take the caller's context, bound it with the configured
// store timeout and translate driver failures into the error kinds of
// internal/errors. Internal methods accept a Querier and are
// transaction-agnostic, so the same logic runs on the pool or inside a tx.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/ChristopherDonnelly/message-board/internal/config"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Storage struct {
	db      *sql.DB
	timeout time.Duration
}

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

func New(cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Public.Pg.Host, "dbname", cfg.Public.Pg.Dbname)
	db, err := Connect(cfg, DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}

	if cfg.Public.Pg.InitPath != "" {
		logger.Log.Info("initializing db", "script", cfg.Public.Pg.InitPath)
		if err := Init(db, cfg.Public.Pg.InitPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Storage{db: db, timeout: cfg.Public.StoreTimeout}, nil
}

func Connect(cfg *config.Config, connCfg ConnectionConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Public.Pg.Host, cfg.Public.Pg.Port,
		cfg.Public.Pg.User, cfg.Private.PgPassword,
		cfg.Public.Pg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Init runs the schema script. Every statement in it is idempotent.
func Init(db *sql.DB, initPath string) error {
	query, err := os.ReadFile(initPath)
	if err != nil {
		return fmt.Errorf("failed to read init script: %w", err)
	}
	if _, err = db.Exec(string(query)); err != nil {
		return fmt.Errorf("failed to run init script: %w", err)
	}
	return nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return internal_errors.Storage("ping db", s.db.PingContext(ctx))
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// withTx executes fn within a transaction; fn's error triggers rollback.
func (s *Storage) withTx(ctx context.Context, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if transaction is already committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// translate maps constraint violations onto the domain error kinds so the
// schema acts as a backstop for the checks the services perform first.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Constraint {
	case "messages_author_id_fkey", "comments_author_id_fkey":
		return internal_errors.NotFound(internal_errors.CodeUserNotFound)
	case "comments_message_id_fkey":
		return internal_errors.NotFound(internal_errors.CodeMessageNotFound)
	case "users_name_check":
		return internal_errors.Validation(internal_errors.CodeNameTooShort)
	case "messages_text_check":
		return internal_errors.Validation(internal_errors.CodeMessageTooShort)
	case "comments_text_check":
		return internal_errors.Validation(internal_errors.CodeCommentTooShort)
	}
	return err
}

func idStrings(ids []uuid.UUID) pq.StringArray {
	return lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
}

func parseIds(raw pq.StringArray) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("malformed id %q: %w", r, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// appendUnique appends id to the uuid[] column of the row keyed by owner in a
// single statement. Appending an id already present leaves the array as is.
func appendUnique(ctx context.Context, q Querier, table, column string, owner, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`
	UPDATE %[1]s SET
		%[2]s = CASE WHEN $2::uuid = ANY(%[2]s) THEN %[2]s ELSE array_append(%[2]s, $2::uuid) END,
		updated_at = now()
	WHERE id = $1`, pq.QuoteIdentifier(table), pq.QuoteIdentifier(column))

	result, err := q.ExecContext(ctx, query, owner, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n > 0, nil
}
