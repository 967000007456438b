package service

import (
	"context"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
)

type BoardService interface {
	ListBoard(ctx context.Context) ([]*domain.BoardMessage, error)
}

type Board struct {
	storage BoardStorage
}

type BoardStorage interface {
	ListBoard(ctx context.Context) ([]*domain.BoardMessage, error)
}

func NewBoard(storage BoardStorage) *Board {
	return &Board{storage}
}

// ListBoard returns all messages newest first with their comments oldest
// first. It never returns a partial board.
func (s *Board) ListBoard(ctx context.Context) ([]*domain.BoardMessage, error) {
	board, err := s.storage.ListBoard(ctx)
	if err != nil {
		return nil, err
	}
	return board, nil
}
