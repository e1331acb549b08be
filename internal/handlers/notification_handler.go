package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/nano-midea/mailer/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationFinder is the service behind the notification routes
type NotificationFinder interface {
	FindNotifications(ctx context.Context, frequency string) (*services.NotificationResult, error)
}

// NotificationHandler handles notification email lookups
type NotificationHandler struct {
	finder NotificationFinder
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(finder NotificationFinder) *NotificationHandler {
	return &NotificationHandler{finder: finder}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications/:frequency", h.FindNotifications)
}

type findNotificationsRequest struct {
	Frequency string `param:"frequency" validate:"required,oneof=instant daily weekly biweekly"`
}

// FindNotifications selects and stamps the notifications due for the given frequency
func (h *NotificationHandler) FindNotifications(c echo.Context) error {
	var req findNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.finder.FindNotifications(c.Request().Context(), req.Frequency)
	if err != nil {
		return finderError(err)
	}

	data := echo.Map{"frequency": result.Frequency}
	if result.Frequency.IsDigest() {
		data["digests"] = result.Digests
	} else {
		data["notifications"] = result.Notifications
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}
