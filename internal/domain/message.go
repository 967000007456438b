package domain

import "time"

type Message struct {
	Id         MsgId
	Text       MsgText
	AuthorId   UserId
	CommentIds []CommentId
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Comment struct {
	Id        CommentId
	Text      CommentText
	AuthorId  UserId
	MessageId MsgId
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Creation data is validated with go-playground/validator before anything
// touches storage. Services trim surrounding whitespace before validating.

type UserCreationData struct {
	Name UserName `validate:"storable,min=3"`
}

type MessageCreationData struct {
	AuthorId UserId  `validate:"required"`
	Text     MsgText `validate:"storable,min=4"`
}

type CommentCreationData struct {
	AuthorId  UserId      `validate:"required"`
	MessageId MsgId       `validate:"required"`
	Text      CommentText `validate:"storable,min=4"`
}
