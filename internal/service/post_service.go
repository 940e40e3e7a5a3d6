package service

import (
	"context"

	"fizikblog/internal/models"
	"fizikblog/internal/policy"
	"fizikblog/internal/repository"
	"fizikblog/internal/validation"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000

	defaultPageLimit = 9
	maxPageLimit     = 100
)

type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Category string
	Image    string
	Author   string
}

type UpdatePostInput struct {
	CallerID uint
	PostID   uint
	Title    string
	Content  string
	Category string
	Image    string
}

type DeletePostInput struct {
	CallerID uint
	PostID   uint
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		isAdmin:  isAdmin,
	}
}

func (s *PostService) caller(ctx context.Context, userID uint) (policy.Caller, error) {
	c := policy.Caller{ID: userID, Authenticated: userID != 0}
	if userID != 0 && s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return c, err
		}
		c.Admin = admin
	}
	return c, nil
}

// CreatePost publishes a new article. Authoring is reserved for admins: this
// mirrors the product's editorial model where ordinary accounts read and
// comment but do not publish.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	caller, err := s.caller(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if d := policy.Authorize(caller, policy.ActionCreatePost, in.UserID); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	if in.Title == "" || in.Content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	slug := validation.Slugify(in.Title)
	if slug == "" {
		return nil, models.NewValidationError("Title must contain at least one letter or digit")
	}

	post := &models.Post{
		Title:    in.Title,
		Slug:     slug,
		Content:  in.Content,
		Image:    in.Image,
		Category: in.Category,
		Author:   in.Author,
		UserID:   in.UserID,
	}
	if post.Category == "" {
		post.Category = models.DefaultPostCategory
	}
	if post.Image == "" {
		post.Image = models.DefaultPostImageURL
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(ctx, slug)
}

// ListPosts normalizes pagination and runs the filter. Reads need no
// authorization.
func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter) (*models.PostPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.StartIndex < 0 {
		filter.StartIndex = 0
	}
	return s.postRepo.List(ctx, filter)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	caller, err := s.caller(ctx, in.CallerID)
	if err != nil {
		return nil, err
	}
	if d := policy.Authorize(caller, policy.ActionUpdatePost, post.UserID); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		slug := validation.Slugify(in.Title)
		if slug == "" {
			return nil, models.NewValidationError("Title must contain at least one letter or digit")
		}
		post.Title = in.Title
		post.Slug = slug
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.Category != "" {
		post.Category = in.Category
	}
	if in.Image != "" {
		post.Image = in.Image
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	caller, err := s.caller(ctx, in.CallerID)
	if err != nil {
		return err
	}
	if d := policy.Authorize(caller, policy.ActionDeletePost, post.UserID); !d.Allowed {
		return models.NewUnauthorizedError(d.Reason)
	}

	return s.postRepo.Delete(ctx, in.PostID)
}
