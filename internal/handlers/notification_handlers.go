package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Notifier relays a preformatted message to the operator channel and
// returns the provider's message id.
type Notifier interface {
	Send(message string) (int, error)
}

type NotificationHandler struct {
	notifier Notifier
}

// NewNotificationHandler wires the relay endpoint. notifier may be nil
// when the chat-bot credentials are absent; the endpoint then answers
// 503 rather than crashing.
func NewNotificationHandler(notifier Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// SendNotification forwards the message verbatim. Callers treat
// delivery as best-effort: a confirmed booking is never rolled back
// because the operator channel was unreachable.
func (h *NotificationHandler) SendNotification(c echo.Context) error {
	if h.notifier == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Notification channel is not configured")
	}

	var req SendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	messageID, err := h.notifier.Send(req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to deliver notification: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"message_id": messageID,
	})
}
