// internal/app/router.go
package app

import (
	checkoutHandler "offers-service/internal/handlers/checkout"
	messageHandler "offers-service/internal/handlers/message"
	ruleHandler "offers-service/internal/handlers/rule"
	"offers-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	RuleHandler     *ruleHandler.RuleHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
	MessageHandler  *messageHandler.MessageHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Offer Rules ====================
	rules := api.Group("/rules")
	rules.Use(h.AuthMiddleware.Auth())
	{
		rules.GET("", h.RuleHandler.ListRules)
		rules.GET("/:id", h.RuleHandler.GetRule)
		rules.POST("", h.RuleHandler.CreateRule)
		rules.PUT("/:id", h.RuleHandler.UpdateRule)
		rules.DELETE("/:id", h.RuleHandler.DeleteRule)

		// Manual lifecycle actions
		rules.POST("/:id/pause", h.RuleHandler.PauseRule)
		rules.POST("/:id/resume", h.RuleHandler.ResumeRule)
		rules.POST("/:id/stop", h.RuleHandler.StopRule)
	}

	// ==================== Checkout ====================
	checkout := api.Group("/checkout")
	checkout.Use(h.AuthMiddleware.Auth())
	{
		checkout.POST("/quote", h.CheckoutHandler.Quote)
		checkout.POST("/commit", h.CheckoutHandler.Commit)
	}

	// ==================== Messages ====================
	messages := api.Group("/messages")
	messages.Use(h.AuthMiddleware.Auth())
	{
		messages.POST("/preview", h.MessageHandler.Preview)
		messages.POST("/render", h.MessageHandler.Render)
	}
}
