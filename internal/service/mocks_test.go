package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ChristopherDonnelly/message-board/internal/domain"
	internal_errors "github.com/ChristopherDonnelly/message-board/internal/errors"
)

// MockStorage is an in-memory store. Any Func field that is set replaces the
// default behaviour of its method.
type MockStorage struct {
	mu       sync.Mutex
	clock    time.Time
	users    map[domain.UserId]*domain.User
	messages map[domain.MsgId]*domain.Message
	comments []*domain.Comment

	saveUserCalls      int
	createMessageCalls int
	createCommentCalls int

	SaveUserFunc               func(ctx context.Context, user domain.User) (domain.User, error)
	UserByNameFunc             func(ctx context.Context, name domain.UserName) (domain.User, error)
	UserFunc                   func(ctx context.Context, id domain.UserId) (domain.User, error)
	CreateMessageFunc          func(ctx context.Context, msg domain.Message) (domain.Message, error)
	MessageFunc                func(ctx context.Context, id domain.MsgId) (domain.Message, error)
	CreateCommentFunc          func(ctx context.Context, c domain.Comment) (domain.Comment, error)
	AppendMessageToUserFunc    func(ctx context.Context, userId domain.UserId, msgId domain.MsgId) error
	AppendCommentToUserFunc    func(ctx context.Context, userId domain.UserId, commentId domain.CommentId) error
	AppendCommentToMessageFunc func(ctx context.Context, msgId domain.MsgId, commentId domain.CommentId) error
	ListBoardFunc              func(ctx context.Context) ([]*domain.BoardMessage, error)
	UnlinkedBackRefsFunc       func(ctx context.Context) ([]domain.BackRef, error)
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[domain.UserId]*domain.User{},
		messages: map[domain.MsgId]*domain.Message{},
	}
}

func (m *MockStorage) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MockStorage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	m.saveUserCalls++
	m.mu.Unlock()
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == user.Name {
			return *u, nil
		}
	}
	user.MessageIds = []domain.MsgId{}
	user.CommentIds = []domain.CommentId{}
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.Id] = &user
	return user, nil
}

func (m *MockStorage) UserByName(ctx context.Context, name domain.UserName) (domain.User, error) {
	if m.UserByNameFunc != nil {
		return m.UserByNameFunc(ctx, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == name {
			return *u, nil
		}
	}
	return domain.User{}, internal_errors.NotFound(internal_errors.CodeUserNotFound)
}

func (m *MockStorage) User(ctx context.Context, id domain.UserId) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return *u, nil
	}
	return domain.User{}, internal_errors.NotFound(internal_errors.CodeUserNotFound)
}

func (m *MockStorage) CreateMessage(ctx context.Context, msg domain.Message) (domain.Message, error) {
	m.mu.Lock()
	m.createMessageCalls++
	m.mu.Unlock()
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[msg.AuthorId]; !ok {
		return domain.Message{}, internal_errors.NotFound(internal_errors.CodeUserNotFound)
	}
	msg.CommentIds = []domain.CommentId{}
	msg.CreatedAt = m.tick()
	msg.UpdatedAt = msg.CreatedAt
	m.messages[msg.Id] = &msg
	return msg, nil
}

func (m *MockStorage) Message(ctx context.Context, id domain.MsgId) (domain.Message, error) {
	if m.MessageFunc != nil {
		return m.MessageFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		return *msg, nil
	}
	return domain.Message{}, internal_errors.NotFound(internal_errors.CodeMessageNotFound)
}

func (m *MockStorage) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	m.mu.Lock()
	m.createCommentCalls++
	m.mu.Unlock()
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[c.MessageId]; !ok {
		return domain.Comment{}, internal_errors.NotFound(internal_errors.CodeMessageNotFound)
	}
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	m.comments = append(m.comments, &c)
	return c, nil
}

func appendOnce[T comparable](list []T, id T) []T {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

func (m *MockStorage) AppendMessageToUser(ctx context.Context, userId domain.UserId, msgId domain.MsgId) error {
	if m.AppendMessageToUserFunc != nil {
		return m.AppendMessageToUserFunc(ctx, userId, msgId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userId]
	if !ok {
		return internal_errors.NotFound(internal_errors.CodeUserNotFound)
	}
	u.MessageIds = appendOnce(u.MessageIds, msgId)
	return nil
}

func (m *MockStorage) AppendCommentToUser(ctx context.Context, userId domain.UserId, commentId domain.CommentId) error {
	if m.AppendCommentToUserFunc != nil {
		return m.AppendCommentToUserFunc(ctx, userId, commentId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userId]
	if !ok {
		return internal_errors.NotFound(internal_errors.CodeUserNotFound)
	}
	u.CommentIds = appendOnce(u.CommentIds, commentId)
	return nil
}

func (m *MockStorage) AppendCommentToMessage(ctx context.Context, msgId domain.MsgId, commentId domain.CommentId) error {
	if m.AppendCommentToMessageFunc != nil {
		return m.AppendCommentToMessageFunc(ctx, msgId, commentId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[msgId]
	if !ok {
		return internal_errors.NotFound(internal_errors.CodeMessageNotFound)
	}
	msg.CommentIds = appendOnce(msg.CommentIds, commentId)
	return nil
}

func (m *MockStorage) ListBoard(ctx context.Context) ([]*domain.BoardMessage, error) {
	if m.ListBoardFunc != nil {
		return m.ListBoardFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	board := []*domain.BoardMessage{}
	byId := map[domain.MsgId]*domain.BoardMessage{}
	for _, msg := range m.messages {
		bm := &domain.BoardMessage{
			Id:         msg.Id,
			Text:       msg.Text,
			AuthorId:   msg.AuthorId,
			AuthorName: m.users[msg.AuthorId].Name,
			CreatedAt:  msg.CreatedAt,
			Comments:   []*domain.BoardComment{},
		}
		board = append(board, bm)
		byId[msg.Id] = bm
	}
	sort.Slice(board, func(i, j int) bool { return board[i].CreatedAt.After(board[j].CreatedAt) })
	for _, c := range m.comments {
		byId[c.MessageId].Comments = append(byId[c.MessageId].Comments, &domain.BoardComment{
			Id:         c.Id,
			Text:       c.Text,
			AuthorId:   c.AuthorId,
			AuthorName: m.users[c.AuthorId].Name,
			CreatedAt:  c.CreatedAt,
		})
	}
	return board, nil
}

func (m *MockStorage) UnlinkedBackRefs(ctx context.Context) ([]domain.BackRef, error) {
	if m.UnlinkedBackRefsFunc != nil {
		return m.UnlinkedBackRefsFunc(ctx)
	}
	return []domain.BackRef{}, nil
}

// MockValidator accepts everything unless a Func is set.
type MockValidator struct {
	NameFunc        func(name domain.UserName) error
	MessageTextFunc func(text domain.MsgText) error
	CommentTextFunc func(text domain.CommentText) error
}

func (m *MockValidator) Name(name domain.UserName) error {
	if m.NameFunc != nil {
		return m.NameFunc(name)
	}
	return nil
}

func (m *MockValidator) MessageText(text domain.MsgText) error {
	if m.MessageTextFunc != nil {
		return m.MessageTextFunc(text)
	}
	return nil
}

func (m *MockValidator) CommentText(text domain.CommentText) error {
	if m.CommentTextFunc != nil {
		return m.CommentTextFunc(text)
	}
	return nil
}

type MockSessions struct {
	bound     []domain.User
	cleared   []string
	BindFunc  func(ctx context.Context, user domain.User) (string, error)
	ClearFunc func(ctx context.Context, token string) error
}

func (m *MockSessions) Bind(ctx context.Context, user domain.User) (string, error) {
	if m.BindFunc != nil {
		return m.BindFunc(ctx, user)
	}
	m.bound = append(m.bound, user)
	return "token-" + user.Id.String(), nil
}

func (m *MockSessions) Clear(ctx context.Context, token string) error {
	m.cleared = append(m.cleared, token)
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, token)
	}
	return nil
}
