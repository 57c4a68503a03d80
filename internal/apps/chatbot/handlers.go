package chatbot

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *ChatService
}

func NewChatHandler(chatService *ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.chatService.Send(c.UserContext(), ws, req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(resp)
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	msgs, err := h.chatService.History(c.UserContext(), ws.UserID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(HistoryResponse{Data: msgs})
}

func (h *ChatHandler) Clear(c *fiber.Ctx) error {
	ws, err := workspace.FromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.chatService.Clear(c.UserContext(), ws.UserID); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
