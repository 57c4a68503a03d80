package reminders

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateRequest struct {
	Text      string `json:"text"`
	Diagnosis string `json:"diagnosis"`
	DelayDays int    `json:"delay_days"`
}

type ListResponse struct {
	Data []models.Reminder `json:"data"`
}

type ReminderHandler struct {
	tolerance time.Duration
	now       func() time.Time
}

func NewReminderHandler(tolerance time.Duration) *ReminderHandler {
	if tolerance <= 0 {
		tolerance = time.Minute
	}
	return &ReminderHandler{tolerance: tolerance, now: time.Now}
}

func (h *ReminderHandler) List(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if !ws.Reminders.Snapshot().Loaded {
		if err := ws.Reminders.Refresh(c.UserContext()); err != nil {
			return apperr.Respond(c, err)
		}
	}
	return c.JSON(ListResponse{Data: ws.Reminders.Snapshot().Reminders})
}

func (h *ReminderHandler) Create(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	r, err := ws.Reminders.Create(c.UserContext(), req.Text, req.Diagnosis, req.DelayDays)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *ReminderHandler) Complete(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reminder ID",
		})
	}

	if err := ws.Reminders.Complete(c.UserContext(), id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reminder completed"})
}

// Due lists the open reminders that fall within the notification window.
func (h *ReminderHandler) Due(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(ListResponse{Data: ws.Reminders.Due(h.now(), h.tolerance)})
}
