package subscription

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/entitlement"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
)

var ErrCheckoutUnavailable = fmt.Errorf("%w: online payments are not available yet", apperr.ErrNotImplemented)

type Usage struct {
	Used      int `json:"used"`
	Quota     int `json:"quota"`
	Remaining int `json:"remaining"`
}

type StatusResponse struct {
	Tier    entitlement.Tier `json:"tier"`
	Premium bool             `json:"premium"`
	Date    string           `json:"date"`
	Scans   Usage            `json:"scans"`
	Chat    Usage            `json:"chat"`
}

func usageOf(snap entitlement.Snapshot, a entitlement.Action) Usage {
	u := Usage{Used: snap.Used(a), Remaining: snap.Remaining(a), Quota: entitlement.Quota(a)}
	if snap.Premium() {
		u.Quota = -1
	}
	return u
}

func statusOf(snap entitlement.Snapshot) StatusResponse {
	return StatusResponse{
		Tier:    snap.Tier,
		Premium: snap.Premium(),
		Date:    snap.Date,
		Scans:   usageOf(snap, entitlement.Scan),
		Chat:    usageOf(snap, entitlement.Chat),
	}
}

type SubscriptionHandler struct{}

func NewSubscriptionHandler() *SubscriptionHandler {
	return &SubscriptionHandler{}
}

func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if !ws.Entitlement.Snapshot().Loaded {
		if err := ws.Entitlement.Refresh(c.UserContext()); err != nil {
			return apperr.Respond(c, err)
		}
	}
	return c.JSON(statusOf(ws.Entitlement.Snapshot()))
}

// Refresh rereads the tier, e.g. after an upgrade made elsewhere.
func (h *SubscriptionHandler) Refresh(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := ws.Entitlement.Refresh(c.UserContext()); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(statusOf(ws.Entitlement.Snapshot()))
}

func (h *SubscriptionHandler) Checkout(c *fiber.Ctx) error {
	return apperr.Respond(c, ErrCheckoutUnavailable)
}
