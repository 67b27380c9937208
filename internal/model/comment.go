package model

import "time"

// Comment is a reader's response to a post. It always references an existing
// post and an existing author at creation time; comments are never edited or
// deleted individually, but deleting a post cascades to its comments.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`

	// AuthorName is joined in on reads for display.
	AuthorName string `json:"authorName"`
}
