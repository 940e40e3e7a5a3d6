// Package seed populates a development database with realistic sample data.
package seed

import (
	"fmt"
	"strings"

	"fizikblog/internal/models"
	"fizikblog/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options controls how much data Run generates.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	Password        string
}

// DefaultOptions returns a dataset sized for local development.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		Posts:           25,
		CommentsPerPost: 4,
		Password:        "seedpassword1",
	}
}

var postCategories = []string{
	"mechanics",
	"quantum",
	"astrophysics",
	"thermodynamics",
	"uncategorized",
}

func fakeUsername() string {
	name := strings.ToLower(gofakeit.Username())
	name = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, name)
	for len(name) < 7 {
		name += gofakeit.DigitN(1)
	}
	if len(name) > 20 {
		name = name[:20]
	}
	return name
}

// Run inserts users, posts, and comments. The first user is an admin named
// "seedadmin" so the moderation endpoints are reachable out of the box.
func Run(db *gorm.DB, opts Options) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	admin := &models.User{
		Username:        "seedadmin",
		Email:           "admin@fizikblog.dev",
		Password:        string(hashed),
		ProfileImageURL: models.DefaultProfileImageURL,
		IsAdmin:         true,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	users = append(users, admin)

	for i := 1; i < opts.Users; i++ {
		u := &models.User{
			Username:        fakeUsername(),
			Email:           gofakeit.Email(),
			Password:        string(hashed),
			ProfileImageURL: models.DefaultProfileImageURL,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(u).Error; err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, u)
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		title := fmt.Sprintf("%s %d", gofakeit.Sentence(5), i)
		title = strings.TrimSuffix(title, ".")
		p := &models.Post{
			Title:    title,
			Slug:     validation.Slugify(title),
			Content:  gofakeit.Paragraph(3, 5, 12, "\n\n"),
			Image:    models.DefaultPostImageURL,
			Category: postCategories[i%len(postCategories)],
			Author:   admin.Username,
			UserID:   admin.ID,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(p).Error; err != nil {
			return fmt.Errorf("seed post %d: %w", i, err)
		}
		posts = append(posts, p)
	}

	for _, p := range posts {
		for i := 0; i < opts.CommentsPerPost; i++ {
			author := users[gofakeit.Number(0, len(users)-1)]
			content := gofakeit.Sentence(10)
			if len(content) > models.MaxCommentLength {
				content = content[:models.MaxCommentLength]
			}
			comment := &models.Comment{
				PostID:  p.ID,
				UserID:  author.ID,
				Content: content,
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seed comment on post %d: %w", p.ID, err)
			}

			// A few likes per comment from random users.
			for j := 0; j < gofakeit.Number(0, 3); j++ {
				liker := users[gofakeit.Number(0, len(users)-1)]
				like := &models.CommentLike{CommentID: comment.ID, UserID: liker.ID}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
					return fmt.Errorf("seed like on comment %d: %w", comment.ID, err)
				}
			}
		}
	}

	return nil
}
