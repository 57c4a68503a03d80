package achievements

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EquipRequest struct {
	TitleID uuid.UUID `json:"title_id"`
}

type GrantRequest struct {
	UserID  uuid.UUID `json:"user_id"`
	TitleID uuid.UUID `json:"title_id"`
}

type MineResponse struct {
	Achievements []models.UserAchievement `json:"achievements"`
	Titles       []models.UserTitle       `json:"titles"`
	Equipped     *models.UserTitle        `json:"equipped"`
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

type AchievementHandler struct{}

func NewAchievementHandler() *AchievementHandler {
	return &AchievementHandler{}
}

func (h *AchievementHandler) Mine(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if !ws.Achievements.Snapshot().Loaded {
		if err := ws.Achievements.Refresh(c.UserContext()); err != nil {
			return apperr.Respond(c, err)
		}
	}
	snap := ws.Achievements.Snapshot()
	return c.JSON(MineResponse{
		Achievements: snap.Achievements,
		Titles:       snap.Titles,
		Equipped:     snap.Equipped(),
	})
}

func (h *AchievementHandler) Catalog(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	catalog, err := ws.Achievements.Catalog(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(catalog)
}

func (h *AchievementHandler) Requirements(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	reqs, err := ws.Achievements.Requirements(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(reqs)
}

func (h *AchievementHandler) Equip(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req EquipRequest
	if err := c.BodyParser(&req); err != nil || req.TitleID == uuid.Nil {
		return badRequest(c, "title_id is required")
	}

	if err := ws.Achievements.Equip(c.UserContext(), req.TitleID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"equipped": ws.Achievements.Snapshot().Equipped()})
}

func (h *AchievementHandler) Unequip(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := ws.Achievements.Unequip(c.UserContext()); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// =============================================================================
// AdminHandler
// =============================================================================

type AdminHandler struct {
	grants *GrantService
}

func NewAdminHandler(grants *GrantService) *AdminHandler {
	return &AdminHandler{grants: grants}
}

func (h *AdminHandler) GrantableTitles(c *fiber.Ctx) error {
	titles, err := h.grants.Grantable(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"data": titles})
}

func (h *AdminHandler) GrantTitle(c *fiber.Ctx) error {
	var req GrantRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil || req.TitleID == uuid.Nil {
		return badRequest(c, "user_id and title_id are required")
	}

	title, err := h.grants.Grant(c.UserContext(), req.UserID, req.TitleID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Title granted", "title": title})
}
