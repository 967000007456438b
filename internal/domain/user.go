package domain

import "time"

type User struct {
	Id         UserId
	Name       UserName
	MessageIds []MsgId
	CommentIds []CommentId
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AuthContext is the request-scoped identity produced by the session gate.
// The zero value is Anonymous.
type AuthContext struct {
	UserId UserId
	Name   UserName
}

func (a AuthContext) Authenticated() bool {
	return a.UserId != UserId{}
}
