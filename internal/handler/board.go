package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
	"github.com/ChristopherDonnelly/message-board/internal/logger"
	"github.com/ChristopherDonnelly/message-board/internal/middleware"
	"github.com/ChristopherDonnelly/message-board/internal/utils"
)

func isStorage(err error) bool {
	return errors.Is(err, internal_errors.ErrStorage)
}

// Board renders every message with its comments. If the board can't be
// assembled the page is still rendered, with an error in place of the list.
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	errMsg := errorFromQuery(r)

	board, err := h.access.ViewBoard(r.Context(), middleware.GetAuth(r))
	if err != nil {
		if errors.Is(err, internal_errors.ErrAuthRequired) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		logger.FromContext(r.Context()).Error("failed to list board", "error", err)
		h.renderTemplate(w, r, boardTemplate, boardPage{Unavailable: true}, internal_errors.MessageFor(internal_errors.CodeOf(err)))
		return
	}

	h.renderTemplate(w, r, boardTemplate, boardPage{Messages: h.renderBoard(board)}, errMsg)
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	_, err := h.access.PostMessage(r.Context(), middleware.GetAuth(r), r.PostFormValue("message"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	http.Redirect(w, r, "/board", http.StatusSeeOther)
}

func (h *Handler) PostComment(w http.ResponseWriter, r *http.Request) {
	messageId, err := uuid.Parse(r.PostFormValue("message_id"))
	if err != nil {
		redirectWithError(w, r, "/board", internal_errors.Validation(internal_errors.CodeInvalidMessageId))
		return
	}

	_, err = h.access.PostComment(r.Context(), middleware.GetAuth(r), messageId, r.PostFormValue("comment"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	http.Redirect(w, r, "/board", http.StatusSeeOther)
}

// writeFailure answers a rejected write: auth failures are a bare 401,
// everything else goes back to the board with a code.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, internal_errors.ErrAuthRequired) {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if isStorage(err) {
		logger.FromContext(r.Context()).Error("write failed", "path", r.URL.Path, "error", err)
	}
	redirectWithError(w, r, "/board", err)
}

// BoardJSON serves the assembled board to non-HTML clients.
func (h *Handler) BoardJSON(w http.ResponseWriter, r *http.Request) {
	board, err := h.access.ViewBoard(r.Context(), middleware.GetAuth(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, board)
}
