package repository

import (
	"fmt"
	"testing"
	"time"

	"fizikblog/internal/database"
	"fizikblog/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema. The
// single-connection pool keeps every query on the same sqlite instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "hashed-password",
		ProfileImageURL: models.DefaultProfileImageURL,
		IsAdmin:         admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID uint, title, slug string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Slug:     slug,
		Content:  fmt.Sprintf("Content for %s", title),
		Category: models.DefaultPostCategory,
		UserID:   userID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, postID, userID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

// setUpdatedAt pins a post's updated_at so ordering assertions are
// deterministic regardless of insert timing.
func setUpdatedAt(t *testing.T, db *gorm.DB, postID uint, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("updated_at", at).Error)
}
