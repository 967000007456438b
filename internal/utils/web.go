package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
)

// WriteErrorAndStatusCode writes err with its carried status code; anything
// untyped is a 500 and its text is not exposed.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var typed *internal_errors.ErrorWithStatusCode
	if errors.As(err, &typed) {
		if typed.StatusCode >= http.StatusInternalServerError {
			logger.Log.Error("request failed", "error", err)
			http.Error(w, internal_errors.MessageFor(typed.Code), typed.StatusCode)
			return
		}
		http.Error(w, typed.Message, typed.StatusCode)
		return
	}
	logger.Log.Error("request failed", "error", err)
	http.Error(w, internal_errors.MessageFor(internal_errors.CodeStorage), http.StatusInternalServerError)
}

func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
