package domain

import "time"

// BoardMessage is the read-only, hydrated view of a message.
type BoardMessage struct {
	Id         MsgId           `json:"id"`
	Text       MsgText         `json:"text"`
	AuthorId   UserId          `json:"author_id"`
	AuthorName UserName        `json:"author_name"`
	CreatedAt  time.Time       `json:"created_at"`
	Comments   []*BoardComment `json:"comments"`
}

type BoardComment struct {
	Id         CommentId   `json:"id"`
	Text       CommentText `json:"text"`
	AuthorId   UserId      `json:"author_id"`
	AuthorName UserName    `json:"author_name"`
	CreatedAt  time.Time   `json:"created_at"`
}
