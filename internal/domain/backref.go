package domain

import "github.com/google/uuid"

// BackRefKind names which owner-side id list a back-reference lives in.
type BackRefKind = string

const (
	BackRefUserMessage    BackRefKind = "user.message_ids"
	BackRefUserComment    BackRefKind = "user.comment_ids"
	BackRefMessageComment BackRefKind = "message.comment_ids"
)

// BackRef is one owner -> child link.
type BackRef struct {
	Kind    BackRefKind
	OwnerId uuid.UUID
	ChildId uuid.UUID
}
