package models

import (
	"time"
)

// MaxCommentLength bounds comment content at write time.
const MaxCommentLength = 200

// Comment is a reader comment on a post. Likes and NumberOfLikes are not
// columns; the repository computes them from comment_likes in the same query
// that loads the comment, so they can never drift from the like rows.
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"not null;index" json:"post_id"`
	UserID        uint      `gorm:"not null" json:"user_id"`
	Content       string    `gorm:"size:200;not null" json:"content"`
	Likes         []uint    `gorm:"-" json:"likes"`
	NumberOfLikes int       `gorm:"->;-:migration" json:"number_of_likes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CommentLike records one user's like on a comment.
// The combination of CommentID and UserID must be unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentPage is a page of comments for the moderation dashboard.
type CommentPage struct {
	Comments          []*Comment `json:"comments"`
	TotalComments     int64      `json:"total_comments"`
	LastMonthComments int64      `json:"last_month_comments"`
}
