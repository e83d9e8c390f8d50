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

// SyncHandler holds dependencies for sync-related handlers
type SyncHandler struct {
	uc      usecase.SyncUsecase
	session service.SessionService
	logger  *slog.Logger
}

// NewSyncHandler is the constructor for SyncHandler
func NewSyncHandler(uc usecase.SyncUsecase, session service.SessionService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		uc:      uc,
		session: session,
		logger:  logger,
	}
}

// TriggerSync runs one reconciliation pass for the signed-in user, the
// pull-to-refresh path. Offline comes back as a skipped report, not an error.
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	user, err := h.session.CurrentUser(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	report, err := h.uc.Reconcile(c.Request().Context(), user.ID)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, report, "Sync complete")
}

// handleAppError handles application errors
func (h *SyncHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
