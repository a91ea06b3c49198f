package server

import (
	"context"
	"time"

	"astra/internal/models"
	"astra/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	users, err := s.userService.SearchUsers(ctx, c.Query("q"))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"users": users})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.userService.GetProfile(c.Context(), id, viewerID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PATCH /api/users/me.
// Absent fields are left untouched; an explicit empty string clears a field.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username     *string `json:"username"`
		DisplayName  *string `json:"display_name"`
		Bio          *string `json:"bio"`
		Introduction *string `json:"introduction"`
		Avatar       *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID:       userID,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		Introduction: req.Introduction,
		Avatar:       req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// ToggleFollow handles POST /api/users/:id/follow
// This endpoint toggles the follow state - if already following, it unfollows
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	followerID := c.Locals("userID").(uint)
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.userService.ToggleFollow(ctx, followerID, followeeID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if result.Following {
		s.publishUserEvent(ctx, followeeID, followerID, EventFollowToggled, map[string]interface{}{
			"follower_id": followerID,
			"following":   true,
		})
	}

	return c.JSON(result)
}
