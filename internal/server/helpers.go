// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"strings"
	"unicode"

	"astra/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// PageWindow holds parsed take/skip query parameters.
type PageWindow struct {
	Take int
	Skip int
}

const (
	maxPageWindowTake = 100
)

// parsePageWindow extracts the feed window from query parameters. Both the
// skip/take and page/limit spellings are accepted; page is 1-based and is
// translated into a skip offset.
func parsePageWindow(c *fiber.Ctx, defaultTake int) PageWindow {
	take := c.QueryInt("take", c.QueryInt("limit", defaultTake))
	if take <= 0 {
		take = defaultTake
	}
	if take > maxPageWindowTake {
		take = maxPageWindowTake
	}

	skip := c.QueryInt("skip", c.QueryInt("offset", -1))
	if skip < 0 {
		if page := c.QueryInt("page", 0); page > 1 {
			skip = (page - 1) * take
		} else {
			skip = 0
		}
	}

	return PageWindow{
		Take: take,
		Skip: skip,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "userId" -> "Invalid user ID", "commentId" -> "Invalid comment ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		// Split camelCase prefix into words.
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}
