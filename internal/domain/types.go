package domain

import "github.com/google/uuid"

type (
	UserId    = uuid.UUID
	MsgId     = uuid.UUID
	CommentId = uuid.UUID

	UserName    = string
	MsgText     = string
	CommentText = string
)

// Field constraints shared by validation and the schema CHECKs.
const (
	MinUserNameLen    = 3
	MinMessageTextLen = 4
	MinCommentTextLen = 4
)
