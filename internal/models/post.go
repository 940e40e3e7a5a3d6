package models

import (
	"time"
)

// Defaults applied when a post is created without the optional fields.
const (
	DefaultPostCategory = "uncategorized"
	DefaultPostImageURL = "https://cdn.fizikblog.dev/defaults/post-cover.png"
)

// Post is an article published on the blog. Slug is derived from the title
// and guarded by a DB unique index; a collision rejects the write rather than
// mutating the existing row. Posts are hard-deleted so their slug and title
// become reusable.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"uniqueIndex;not null" json:"title"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	Content  string `gorm:"not null" json:"content"`
	Image    string `json:"image"`
	Category string `gorm:"not null;default:uncategorized" json:"category"`
	// Author is a free-form display label, independent of UserID.
	Author    string    `json:"author"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostFilter describes a posts query. Zero values mean "no constraint";
// StartIndex/Limit paginate and SortAscending orders by updated_at.
type PostFilter struct {
	UserID        uint
	Category      string
	Slug          string
	PostID        uint
	SearchTerm    string
	StartIndex    int
	Limit         int
	SortAscending bool
}

// PostPage is the result of a posts query: the requested page plus the counts
// the dashboard renders.
type PostPage struct {
	Posts          []*Post `json:"posts"`
	TotalPosts     int64   `json:"total_posts"`
	LastMonthPosts int64   `json:"last_month_posts"`
}
