package server

import (
	"strings"

	"fizikblog/internal/models"
	"fizikblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Author   string `json:"author"`
}

type updatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

// CreatePost publishes a new article. Admin only.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   callerID(c),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
		Author:   req.Author,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post by numeric ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// GetPostBySlug returns a single post by its URL slug.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	post, err := s.postService.GetPostBySlug(c.UserContext(), slug)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// GetPosts runs the post filter and returns the page plus dashboard counts.
// All filter fields combine with AND.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	filter := models.PostFilter{
		UserID:        uint(c.QueryInt("userId", 0)),
		Category:      c.Query("category"),
		Slug:          c.Query("slug"),
		PostID:        uint(c.QueryInt("postId", 0)),
		SearchTerm:    c.Query("searchTerm"),
		StartIndex:    p.StartIndex,
		Limit:         p.Limit,
		SortAscending: strings.EqualFold(c.Query("sort"), "asc"),
	}

	page, err := s.postService.ListPosts(c.UserContext(), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// UpdatePost edits an article. Owner or admin.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		CallerID: callerID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes an article and its comment thread. Owner or admin.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		CallerID: callerID(c),
		PostID:   id,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
