package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

// Reconciler restores owner-side id lists that fell behind their children,
// for example after a failed append in PostComment. Child rows are the truth.
type Reconciler struct {
	storage ReconcileStorage

	mu        sync.Mutex
	lastStats ReconcileStats
}

// ReconcileStats describes the last reconciliation run.
type ReconcileStats struct {
	RunAt      time.Time
	Unlinked   int
	Repaired   int
	DurationMs int64
	Errors     []string
}

type ReconcileStorage interface {
	UnlinkedBackRefs(ctx context.Context) ([]domain.BackRef, error)
	AppendMessageToUser(ctx context.Context, userId domain.UserId, msgId domain.MsgId) error
	AppendCommentToUser(ctx context.Context, userId domain.UserId, commentId domain.CommentId) error
	AppendCommentToMessage(ctx context.Context, msgId domain.MsgId, commentId domain.CommentId) error
}

func NewReconciler(storage ReconcileStorage) *Reconciler {
	return &Reconciler{storage: storage}
}

// StartBackgroundReconcile runs RunReconcile every interval until ctx is done.
func (r *Reconciler) StartBackgroundReconcile(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started back-reference reconciler", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.RunReconcile(ctx); err != nil {
					logger.Log.Error("reconcile failed", "error", err)
					continue
				}
				stats := r.GetLastReconcileStats()
				if stats.Unlinked > 0 {
					logger.Log.Info("reconcile completed",
						"unlinked", stats.Unlinked,
						"repaired", stats.Repaired,
						"duration_ms", stats.DurationMs,
						"errors", len(stats.Errors))
				}
			case <-ctx.Done():
				logger.Log.Info("reconciler shutting down")
				return
			}
		}
	}()
}

// RunReconcile executes a single pass. Individual repair failures are
// collected into the stats, not returned.
func (r *Reconciler) RunReconcile(ctx context.Context) error {
	startTime := time.Now()
	stats := ReconcileStats{RunAt: startTime, Errors: []string{}}

	refs, err := r.storage.UnlinkedBackRefs(ctx)
	if err != nil {
		return err
	}
	stats.Unlinked = len(refs)

	for _, ref := range refs {
		if err := r.repair(ctx, ref); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("%s %s -> %s: %v", ref.Kind, ref.OwnerId, ref.ChildId, err))
			continue
		}
		stats.Repaired++
		backRefRepairsTotal.WithLabelValues(ref.Kind).Inc()
	}

	stats.DurationMs = time.Since(startTime).Milliseconds()
	r.mu.Lock()
	r.lastStats = stats
	r.mu.Unlock()
	return nil
}

func (r *Reconciler) repair(ctx context.Context, ref domain.BackRef) error {
	switch ref.Kind {
	case domain.BackRefUserMessage:
		return r.storage.AppendMessageToUser(ctx, ref.OwnerId, ref.ChildId)
	case domain.BackRefUserComment:
		return r.storage.AppendCommentToUser(ctx, ref.OwnerId, ref.ChildId)
	case domain.BackRefMessageComment:
		return r.storage.AppendCommentToMessage(ctx, ref.OwnerId, ref.ChildId)
	}
	return fmt.Errorf("unknown back-reference kind %q", ref.Kind)
}

func (r *Reconciler) GetLastReconcileStats() ReconcileStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats
}
