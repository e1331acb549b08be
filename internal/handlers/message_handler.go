package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/nano-midea/mailer/internal/models"
	"github.com/labstack/echo/v4"
)

// UnreadMessageFinder is the service behind the message routes
type UnreadMessageFinder interface {
	FindUnreadMessages(ctx context.Context) ([]models.UnreadMessage, error)
}

// MessageHandler handles unread direct message lookups
type MessageHandler struct {
	finder UnreadMessageFinder
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(finder UnreadMessageFinder) *MessageHandler {
	return &MessageHandler{finder: finder}
}

// RegisterMessageRoutes registers message routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages/unread", h.FindUnreadMessages)
}

// FindUnreadMessages returns sender/receiver/message triples for stale unread threads
func (h *MessageHandler) FindUnreadMessages(c echo.Context) error {
	messages, err := h.finder.FindUnreadMessages(c.Request().Context())
	if err != nil {
		return finderError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"messages": messages},
	})
}
