package server

import (
	"fizikblog/internal/models"
	"fizikblog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateUserRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profile_image_url"`
}

// GetUser returns a user's public profile.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser modifies the target account. Owners and admins only.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	caller := callerID(c)
	isAdmin, aerr := s.isAdminByUserID(c.UserContext(), caller)
	if aerr != nil {
		return models.RespondWithAppError(c, aerr)
	}

	user, err := s.userService.UpdateUser(c.UserContext(), service.UpdateUserInput{
		CallerID:        caller,
		CallerIsAdmin:   isAdmin,
		TargetID:        targetID,
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser removes the target account. Owners and admins only.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	caller := callerID(c)
	isAdmin, aerr := s.isAdminByUserID(c.UserContext(), caller)
	if aerr != nil {
		return models.RespondWithAppError(c, aerr)
	}

	if err := s.userService.DeleteUser(c.UserContext(), service.DeleteUserInput{
		CallerID:      caller,
		CallerIsAdmin: isAdmin,
		TargetID:      targetID,
	}); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// ListUsers returns a page of accounts with totals. Admin only.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	caller := callerID(c)
	isAdmin, err := s.isAdminByUserID(c.UserContext(), caller)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	p := parsePagination(c)
	page, err := s.userService.ListUsers(c.UserContext(), service.ListUsersInput{
		CallerID:      caller,
		CallerIsAdmin: isAdmin,
		Limit:         p.Limit,
		Offset:        p.StartIndex,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}
