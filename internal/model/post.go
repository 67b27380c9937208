package model

import "time"

// DateFormat is the human-readable form a post's Date is stamped with at
// creation. The date is stored as a display string and never recomputed,
// so edits keep the original publication date.
const DateFormat = "January 2, 2006"

// Post is a published blog entry. Title is unique across the store.
// Body holds rich-text markup produced by the editor and is rendered as-is.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Date      string    `json:"date"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`

	// AuthorName is joined in on reads for display. Not a column of
	// blog_posts.
	AuthorName string `json:"authorName"`
}
