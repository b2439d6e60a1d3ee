package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/http/handler"
	"basegraph.app/membership/internal/http/handler/webhook"
	"basegraph.app/membership/internal/http/middleware"
	"basegraph.app/membership/internal/service"
)

type RouterConfig struct {
	DashboardURL        string
	IsProduction        bool
	InviteRatePerMinute int
	// WebhookVerifier is nil in self-hosted mode, which has no billing
	// provider to hear from.
	WebhookVerifier billing.WebhookVerifier
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authService := services.Auth()
	requireAuth := middleware.RequireAuth(authService)

	authHandler := handler.NewAuthHandler(authService, cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	if cfg.WebhookVerifier != nil {
		stripeHandler := webhook.NewStripeWebhookHandler(cfg.WebhookVerifier, services.SubscriptionSync())
		router.POST("/webhooks/stripe", stripeHandler.HandleEvent)
	}

	v1 := router.Group("/api/v1")
	v1.Use(requireAuth)
	{
		memberHandler := handler.NewMemberHandler(services.Membership())
		inviteLimiter := middleware.NewRateLimiter(cfg.InviteRatePerMinute, cfg.InviteRatePerMinute)
		MemberRouter(v1, memberHandler, inviteLimiter.Middleware())
	}
}
