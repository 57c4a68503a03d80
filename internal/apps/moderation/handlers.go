package moderation

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	service *ReportService
}

func NewReportHandler(service *ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var req CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	report, err := h.service.Create(c.UserContext(), ws.UserID, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	reports, total, err := h.service.List(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return c.JSON(ReportListResponse{Data: reports, Total: total, Limit: limit, Offset: offset})
}

func (h *ReportHandler) Review(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid report ID"})
	}
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: "Invalid request body"})
	}
	report, err := h.service.Review(c.UserContext(), ws.UserID, id, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(report)
}
