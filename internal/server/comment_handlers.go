package server

import (
	"fizikblog/internal/models"
	"fizikblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID  uint   `json:"post_id"`
	Content string `json:"content"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment adds a comment to a post. Any authenticated user.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  callerID(c),
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment returns a single comment with its like state.
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comment)
}

// GetPostComments returns a post's comments newest-first. An unknown post
// yields an empty list.
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// LikeComment toggles the caller's like and returns the updated comment.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.ToggleLike(c.UserContext(), id, callerID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comment)
}

// EditComment rewrites a comment's content. Author only.
func (s *Server) EditComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req editCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.EditComment(c.UserContext(), service.EditCommentInput{
		CallerID:  callerID(c),
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment. Author or admin.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		CallerID:  callerID(c),
		CommentID: id,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// GetComments returns every comment on the platform with totals. Admin only.
func (s *Server) GetComments(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.commentService.ListAllComments(c.UserContext(), service.ListAllCommentsInput{
		CallerID: callerID(c),
		Limit:    p.Limit,
		Offset:   p.StartIndex,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}
