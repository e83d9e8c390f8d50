// Package handler contains the HTTP facade handlers.
package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"marketpin/internal/delivery/http/response"
	"marketpin/internal/domain/entity"
	domainerrors "marketpin/internal/domain/errors"
	"marketpin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MarketHandler holds dependencies for market-related handlers
type MarketHandler struct {
	uc     usecase.MarketUsecase
	logger *slog.Logger
}

// NewMarketHandler is the constructor for MarketHandler
func NewMarketHandler(uc usecase.MarketUsecase, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListMarkets returns the cached approved markets, optionally filtered by a
// free-text query and a comma-separated category set.
func (h *MarketHandler) ListMarkets(c echo.Context) error {
	filter := usecase.MarketFilter{
		Query: c.QueryParam("q"),
	}
	if raw := c.QueryParam("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			category := entity.MarketCategory(strings.TrimSpace(part))
			if !category.IsValid() {
				return response.BadRequest(c, "VALIDATION_ERROR", "unknown category: "+string(category))
			}
			filter.Categories = append(filter.Categories, category)
		}
	}

	markets, err := h.uc.ApprovedMarkets(c.Request().Context(), filter)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, markets, "Markets retrieved successfully")
}

// NearbyMarkets returns cached markets around a point, nearest first.
func (h *MarketHandler) NearbyMarkets(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "lat must be a number")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "lon must be a number")
	}

	radius := 0.0
	if raw := c.QueryParam("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			return response.BadRequest(c, "VALIDATION_ERROR", "radius must be a non-negative number")
		}
	}

	markets, err := h.uc.NearbyMarkets(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, markets, "Markets retrieved successfully")
}

// GetMarket returns one cached market.
func (h *MarketHandler) GetMarket(c echo.Context) error {
	market, err := h.uc.GetMarket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, market, "Market retrieved successfully")
}

// SubmitMarketRequest represents the request body for submitting a market
type SubmitMarketRequest struct {
	Name         string  `json:"name" form:"name"`
	Description  string  `json:"description" form:"description"`
	Address      string  `json:"address" form:"address"`
	Latitude     float64 `json:"latitude" form:"latitude"`
	Longitude    float64 `json:"longitude" form:"longitude"`
	Category     string  `json:"category" form:"category"`
	OpeningHours string  `json:"opening_hours" form:"opening_hours"`
}

// SubmitMarket files a new-market request. Accepts JSON, or multipart form
// data with an optional "photo" part.
func (h *MarketHandler) SubmitMarket(c echo.Context) error {
	var req SubmitMarketRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid market input")
	}

	input := &usecase.SubmitMarketInput{
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Category:     req.Category,
		OpeningHours: req.OpeningHours,
	}

	file, closePhoto, err := h.attachPhoto(c, input)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid photo upload")
	}
	if file != nil {
		defer closePhoto()
	}

	market, err := h.uc.SubmitMarket(c.Request().Context(), input)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, market, "Market submitted for review")
}

// ReportMarketRequest represents the request body for reporting a market
type ReportMarketRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// ReportMarket files a delete request against a market.
func (h *MarketHandler) ReportMarket(c echo.Context) error {
	var req ReportMarketRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid report input")
	}

	input := &usecase.DeleteRequestInput{
		MarketID: c.Param("id"),
		Reason:   req.Reason,
	}

	marketInput := &usecase.SubmitMarketInput{}
	file, closePhoto, err := h.attachPhoto(c, marketInput)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid photo upload")
	}
	if file != nil {
		defer closePhoto()
		input.PhotoName = marketInput.PhotoName
		input.PhotoContentType = marketInput.PhotoContentType
		input.Photo = marketInput.Photo
	}

	submission, err := h.uc.SubmitDeleteRequest(c.Request().Context(), input)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, submission, "Report submitted for review")
}

// OutstandingReport reports whether the signed-in user already reported the
// market.
func (h *MarketHandler) OutstandingReport(c echo.Context) error {
	outstanding, err := h.uc.HasOutstandingDeleteRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"outstanding": outstanding}, "")
}

// LikeMarket increments the like counter.
func (h *MarketHandler) LikeMarket(c echo.Context) error {
	market, err := h.uc.LikeMarket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, market, "Market liked")
}

// ShareMarket renders the market's share code as a PNG.
func (h *MarketHandler) ShareMarket(c echo.Context) error {
	code, err := h.uc.ShareCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.handleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", code)
}

// ListSubmissions returns the signed-in user's submission history.
func (h *MarketHandler) ListSubmissions(c echo.Context) error {
	submissions, err := h.uc.UserSubmissions(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, submissions, "Submissions retrieved successfully")
}

// SubmissionStatus reports whether the user authored anything yet, gating the
// submissions screen against its empty state.
func (h *MarketHandler) SubmissionStatus(c echo.Context) error {
	has, err := h.uc.HasSubmissions(c.Request().Context())
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"has_submissions": has}, "")
}

// attachPhoto wires the optional multipart "photo" part into the input.
// Returns a close function when a file was opened.
func (h *MarketHandler) attachPhoto(c echo.Context, input *usecase.SubmitMarketInput) (*multipart.FileHeader, func(), error) {
	header, err := c.FormFile("photo")
	if err != nil {
		// Absent photo part, or a non-multipart request. Both are fine.
		return nil, nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	input.PhotoName = header.Filename
	input.PhotoContentType = header.Header.Get("Content-Type")
	input.Photo = file

	return header, func() { _ = file.Close() }, nil
}

// handleAppError handles application errors
func (h *MarketHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
