package entity

import "time"

// Comment is a discussion entry on a course. A non-empty ParentID marks the
// comment as a reply to another comment; replies do not nest further.
type Comment struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course"`
	SenderID  string    `json:"sender"`
	ParentID  string    `json:"comment_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	Sender  *UserRef  `json:"sender_info,omitempty"`
	Replies []Comment `json:"replies,omitempty"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool { return c.ParentID != "" }
