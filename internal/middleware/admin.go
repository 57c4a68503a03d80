package middleware

import (
	"slices"
	"strings"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits a request when it carries the admin token, when the
// caller is listed in ADMIN_EMAILS or ADMIN_USER_IDS, or when the gateway
// reports the admin role. It must run after Workspace.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		ws, err := workspace.FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		sess := ws.Session.Current()
		if sess != nil {
			if sess.IsAdmin() ||
				slices.Contains(adminEmails, strings.ToLower(sess.Email)) ||
				slices.Contains(adminUserIDs, sess.UserID.String()) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
