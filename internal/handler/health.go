package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/ChristopherDonnelly/message-board/internal/logger"
	"github.com/ChristopherDonnelly/message-board/internal/utils"
)

type healthReport struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health pings every backing store. Returns 503 if any of them is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.dependencies))
	for name := range h.dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	report := healthReport{Status: "ok", Dependencies: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.dependencies[name].Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", "dependency", name, "error", err)
			report.Status = "unavailable"
			report.Dependencies[name] = "unavailable"
			continue
		}
		report.Dependencies[name] = "ok"
	}

	if report.Status != "ok" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	utils.WriteJSON(w, report)
}
