package repository

import (
	"context"
	"errors"
	"time"

	"fizikblog/internal/middleware"
	"fizikblog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	ListAll(ctx context.Context, limit, offset int) (*models.CommentPage, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, commentID, userID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("create", "comments")()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return storeUnavailable(err)
	}
	comment.Likes = []uint{}
	return nil
}

// withLikeCount selects comments together with their like count, computed in
// the same query so the count can never drift from the like rows.
func (r *commentRepository) withLikeCount(db *gorm.DB) *gorm.DB {
	return db.Select("comments.*, " +
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as number_of_likes")
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var comment models.Comment
	if err := r.withLikeCount(r.db.WithContext(ctx).Model(&models.Comment{})).
		First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, storeUnavailable(err)
	}
	if err := r.loadLikes(ctx, []*models.Comment{&comment}); err != nil {
		return nil, err
	}
	return &comment, nil
}

// loadLikes fills the Likes user-ID sets for a batch of comments.
func (r *commentRepository) loadLikes(ctx context.Context, comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
		c.Likes = []uint{}
	}

	var likes []models.CommentLike
	if err := r.db.WithContext(ctx).
		Where("comment_id IN ?", ids).
		Find(&likes).Error; err != nil {
		return storeUnavailable(err)
	}

	byComment := make(map[uint][]uint, len(comments))
	for _, l := range likes {
		byComment[l.CommentID] = append(byComment[l.CommentID], l.UserID)
	}
	for _, c := range comments {
		if ids, ok := byComment[c.ID]; ok {
			c.Likes = ids
		}
	}
	return nil
}

// ListByPost returns the post's comments newest-first. A post ID with no
// comments (including a deleted post) yields an empty slice, not an error.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	comments := []*models.Comment{}
	if err := r.withLikeCount(r.db.WithContext(ctx).Model(&models.Comment{})).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := r.loadLikes(ctx, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ListAll returns a page of all comments for the moderation dashboard,
// newest first, plus total and last-month counts.
func (r *commentRepository) ListAll(ctx context.Context, limit, offset int) (*models.CommentPage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("list", "comments")()

	comments := []*models.Comment{}
	if err := r.withLikeCount(r.db.WithContext(ctx).Model(&models.Comment{})).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, storeUnavailable(err)
	}
	if err := r.loadLikes(ctx, comments); err != nil {
		return nil, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	oneMonthAgo := time.Now().AddDate(0, -1, 0)
	var lastMonth int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("created_at >= ?", oneMonthAgo).
		Count(&lastMonth).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	return &models.CommentPage{
		Comments:          comments,
		TotalComments:     total,
		LastMonthComments: lastMonth,
	}, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("update", "comments")()

	if err := r.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).
		Update("content", comment.Content).Error; err != nil {
		return storeUnavailable(err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("delete", "comments")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return storeUnavailable(err)
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return storeUnavailable(err)
		}
		return nil
	})
}

// ToggleLike flips userID's like on the comment inside one transaction: if a
// like row exists it is removed, otherwise one is inserted. The unique
// (comment_id, user_id) index plus ON CONFLICT DO NOTHING make concurrent
// toggles by different users both apply without racing.
func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("toggle_like", "comment_likes")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Select("id").First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", commentID)
			}
			return storeUnavailable(err)
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&models.CommentLike{})
		if res.Error != nil {
			return storeUnavailable(res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		like := models.CommentLike{CommentID: commentID, UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return storeUnavailable(err)
		}
		return nil
	})
}
