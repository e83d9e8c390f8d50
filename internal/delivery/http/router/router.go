// Package router contains routing setup for the HTTP facade.
package router

import (
	"marketpin/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	MarketHandler       *handler.MarketHandler
	NotificationHandler *handler.NotificationHandler
	SyncHandler         *handler.SyncHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	marketHandler       *handler.MarketHandler
	notificationHandler *handler.NotificationHandler
	syncHandler         *handler.SyncHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		marketHandler:       params.MarketHandler,
		notificationHandler: params.NotificationHandler,
		syncHandler:         params.SyncHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	marketGroup := e.Group("/markets")
	{
		marketGroup.GET("", r.marketHandler.ListMarkets)
		marketGroup.GET("/nearby", r.marketHandler.NearbyMarkets)
		marketGroup.POST("", r.marketHandler.SubmitMarket)
		marketGroup.GET("/:id", r.marketHandler.GetMarket)
		marketGroup.POST("/:id/like", r.marketHandler.LikeMarket)
		marketGroup.POST("/:id/report", r.marketHandler.ReportMarket)
		marketGroup.GET("/:id/report", r.marketHandler.OutstandingReport)
		marketGroup.GET("/:id/share", r.marketHandler.ShareMarket)
	}

	submissionGroup := e.Group("/submissions")
	{
		submissionGroup.GET("", r.marketHandler.ListSubmissions)
		submissionGroup.GET("/status", r.marketHandler.SubmissionStatus)
	}

	notificationGroup := e.Group("/notifications")
	{
		notificationGroup.GET("", r.notificationHandler.ListNotifications)
		notificationGroup.POST("/refresh", r.notificationHandler.RefreshNotifications)
		notificationGroup.POST("/:id/read", r.notificationHandler.MarkNotificationRead)
		notificationGroup.GET("/indicator", r.notificationHandler.UnreadIndicator)
	}

	e.POST("/sync", r.syncHandler.TriggerSync)
}
