package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	appmw "rentwheels/internal/middleware"
)

type stubNotifier struct {
	lastMessage string
	err         error
}

func (s *stubNotifier) Send(message string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.lastMessage = message
	return 1234, nil
}

func setupNotificationRoute(notifier Notifier) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = appmw.JSONErrorHandler
	e.POST("/api/notifications", NewNotificationHandler(notifier).SendNotification)
	return e
}

func TestSendNotification(t *testing.T) {
	stub := &stubNotifier{}
	e := setupNotificationRoute(stub)

	w := httpDo(e, http.MethodPost, "/api/notifications", map[string]string{
		"message": "<b>New booking</b> ORD-20240101-ABC123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.Equal(t, float64(1234), resp["message_id"])
	require.Equal(t, "<b>New booking</b> ORD-20240101-ABC123", stub.lastMessage)
}

func TestSendNotificationEmptyMessage(t *testing.T) {
	e := setupNotificationRoute(&stubNotifier{})

	w := httpDo(e, http.MethodPost, "/api/notifications", map[string]string{"message": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendNotificationUnconfigured(t *testing.T) {
	e := setupNotificationRoute(nil)

	w := httpDo(e, http.MethodPost, "/api/notifications", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSendNotificationProviderFailure(t *testing.T) {
	e := setupNotificationRoute(&stubNotifier{err: errors.New("chat not found")})

	w := httpDo(e, http.MethodPost, "/api/notifications", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "chat not found")
}
