package service

import (
	"context"
	"fmt"

	"fizikblog/internal/models"
	"fizikblog/internal/policy"
	"fizikblog/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type EditCommentInput struct {
	CallerID  uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	CallerID  uint
	CommentID uint
}

type ListAllCommentsInput struct {
	CallerID uint
	Limit    int
	Offset   int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) caller(ctx context.Context, userID uint) (policy.Caller, error) {
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

func validateCommentContent(content string) error {
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLength {
		return models.NewValidationError(
			fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLength))
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	caller, err := s.caller(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if d := policy.Authorize(caller, policy.ActionCreateComment, 0); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	// The target post must exist; a dangling post ID is NotFound, not a
	// silent orphan comment.
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Content: in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListComments returns a post's comments newest-first. A deleted or unknown
// post yields an empty list, not an error.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// EditComment is strictly author-only. Admins can delete any comment but
// never rewrite someone else's words.
func (s *CommentService) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	caller := policy.Caller{ID: in.CallerID, Authenticated: in.CallerID != 0}
	if d := policy.Authorize(caller, policy.ActionEditComment, comment.UserID); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}

	caller, err := s.caller(ctx, in.CallerID)
	if err != nil {
		return err
	}
	if d := policy.Authorize(caller, policy.ActionDeleteComment, comment.UserID); !d.Allowed {
		return models.NewUnauthorizedError(d.Reason)
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}

// ToggleLike flips the caller's like on the comment and returns the updated
// comment. Toggling twice restores the original state.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	caller := policy.Caller{ID: userID, Authenticated: userID != 0}
	if d := policy.Authorize(caller, policy.ActionToggleLike, 0); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	if err := s.commentRepo.ToggleLike(ctx, commentID, userID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

func (s *CommentService) ListAllComments(ctx context.Context, in ListAllCommentsInput) (*models.CommentPage, error) {
	caller, err := s.caller(ctx, in.CallerID)
	if err != nil {
		return nil, err
	}
	if d := policy.Authorize(caller, policy.ActionListComments, 0); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	if in.Limit <= 0 {
		in.Limit = defaultPageLimit
	}
	if in.Limit > maxPageLimit {
		in.Limit = maxPageLimit
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	return s.commentRepo.ListAll(ctx, in.Limit, in.Offset)
}
