package repository

import (
	"context"
	"errors"
	"time"

	"fizikblog/internal/cache"
	"fizikblog/internal/middleware"
	"fizikblog/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) (*models.PostPage, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		// The unique indexes on slug and title make the check atomic with
		// the insert; there is no check-then-write window.
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this title already exists")
		}
		return storeUnavailable(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return storeUnavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var post models.Post
	err := cache.Aside(ctx, cache.PostSlugKey(slug), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", slug)
			}
			return storeUnavailable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// applyFilter builds the WHERE clause shared by the page query and the
// total count.
func applyFilter(db *gorm.DB, filter models.PostFilter) *gorm.DB {
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Slug != "" {
		db = db.Where("slug = ?", filter.Slug)
	}
	if filter.PostID != 0 {
		db = db.Where("id = ?", filter.PostID)
	}
	if filter.SearchTerm != "" {
		like := "%" + filter.SearchTerm + "%"
		db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", like, like)
	}
	return db
}

// List returns the filtered page plus the unpaginated total and the count of
// posts created within the last month. Ordering is updated_at with id as
// tiebreak, so identical filter and store state always produce the same
// ordered result.
func (r *postRepository) List(ctx context.Context, filter models.PostFilter) (*models.PostPage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("list", "posts")()

	order := "updated_at DESC, id DESC"
	if filter.SortAscending {
		order = "updated_at ASC, id ASC"
	}

	var posts []*models.Post
	if err := applyFilter(r.db.WithContext(ctx), filter).
		Order(order).
		Limit(filter.Limit).
		Offset(filter.StartIndex).
		Find(&posts).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter).
		Count(&total).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	oneMonthAgo := time.Now().AddDate(0, -1, 0)
	var lastMonth int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("created_at >= ?", oneMonthAgo).
		Count(&lastMonth).Error; err != nil {
		return nil, storeUnavailable(err)
	}

	return &models.PostPage{
		Posts:          posts,
		TotalPosts:     total,
		LastMonthPosts: lastMonth,
	}, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("update", "posts")()

	// A title change re-derives the slug, so the stored row may be cached
	// under a slug the update is about to abandon.
	var prev models.Post
	if err := r.db.WithContext(ctx).Select("slug").First(&prev, post.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", post.ID)
		}
		return storeUnavailable(err)
	}

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A post with this title already exists")
		}
		return storeUnavailable(err)
	}
	cache.InvalidatePost(ctx, post.ID, post.Slug)
	if prev.Slug != "" && prev.Slug != post.Slug {
		cache.Invalidate(ctx, cache.PostSlugKey(prev.Slug))
	}
	return nil
}

// Delete removes the post and every comment (and comment like) attached to
// it in one transaction, so no orphan comments survive.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer middleware.TrackQuery("delete", "posts")()

	var slug string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return storeUnavailable(err)
		}
		slug = post.Slug

		if err := tx.Where(
			"comment_id IN (?)",
			tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id),
		).Delete(&models.CommentLike{}).Error; err != nil {
			return storeUnavailable(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return storeUnavailable(err)
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return storeUnavailable(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id, slug)
	return nil
}
