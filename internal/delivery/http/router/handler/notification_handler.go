package handler

import (
	"log/slog"
	"net/http"

	"marketpin/internal/delivery/http/response"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/domain/service"
	"marketpin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// NotificationHandler holds dependencies for notification-related handlers
type NotificationHandler struct {
	uc      usecase.NotificationUsecase
	session service.SessionService
	logger  *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(uc usecase.NotificationUsecase, session service.SessionService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		uc:      uc,
		session: session,
		logger:  logger,
	}
}

// ListNotifications returns every cached notification for the signed-in user.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	user, err := h.session.CurrentUser(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	notifications, err := h.uc.Notifications(c.Request().Context(), user.ID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, notifications, "Notifications retrieved successfully")
}

// RefreshNotifications merges the remote streams into the cache and returns
// the unread list.
func (h *NotificationHandler) RefreshNotifications(c echo.Context) error {
	user, err := h.session.CurrentUser(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	unread, err := h.uc.Merge(c.Request().Context(), user.ID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, unread, "Notifications refreshed")
}

// MarkNotificationRead acknowledges one notification.
func (h *NotificationHandler) MarkNotificationRead(c echo.Context) error {
	if err := h.uc.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domainerrors.ErrNotificationNotFound) {
			return response.NotFound(c, "NOTIFICATION_NOT_FOUND", "Notification not found")
		}

		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Notification marked as read")
}

// UnreadIndicator reports whether the bell indicator should light up.
func (h *NotificationHandler) UnreadIndicator(c echo.Context) error {
	user, err := h.session.CurrentUser(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	unread, err := h.uc.HasUnread(c.Request().Context(), user.ID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"unread": unread}, "")
}

// handleAppError handles application errors
func (h *NotificationHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
