package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the authenticated user's ID placed in the request
// context by the auth middleware.
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// unauthenticated is the response for routes reached without a valid token.
func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "You need to be logged in to access this page.",
	})
}

// splitCSV splits a comma-separated query value, dropping empty entries.
func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
