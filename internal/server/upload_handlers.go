package server

import (
	"astra/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadFiles handles POST /api/uploads. Files are sent as multipart form
// parts named "file"; every file in the batch is validated before any is
// written to disk.
func (s *Server) UploadFiles(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
	}

	files := form.File["file"]
	saved, err := s.uploadService.SaveAll(files)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// The service reports mount-relative paths; make them resolvable from
	// the caller's side of the network.
	for i := range saved {
		saved[i].URL = c.BaseURL() + saved[i].URL
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"files": saved})
}
