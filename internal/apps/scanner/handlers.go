package scanner

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/media"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	scanService *ScanService
}

func NewScanHandler(scanService *ScanService) *ScanHandler {
	return &ScanHandler{scanService: scanService}
}

func (h *ScanHandler) Eligibility(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	snap := ws.Entitlement.Snapshot()
	return c.JSON(EligibilityResponse{
		CanScan:   ws.Entitlement.CanPerform(entitlement.Scan),
		Remaining: snap.Remaining(entitlement.Scan),
		Premium:   snap.Premium(),
	})
}

func (h *ScanHandler) Identify(c *fiber.Ctx) error {
	return h.scan(c, KindIdentify)
}

func (h *ScanHandler) Diagnose(c *fiber.Ctx) error {
	return h.scan(c, KindDiagnose)
}

func (h *ScanHandler) scan(c *fiber.Ctx, kind Kind) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image file is required",
		})
	}
	img, err := media.FromForm(file)
	if err != nil {
		return apperr.Respond(c, err)
	}

	result, err := h.scanService.Scan(c.UserContext(), ws, kind, img, c.FormValue("plant_name"), ParseLanguage(c.FormValue("lang")))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(result)
}
