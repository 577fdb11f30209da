package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/godlywomen/community-api/internal/api/http/handlers"
	"github.com/godlywomen/community-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Marketplace    *handlers.MarketplaceHandler
	Articles       *handlers.ArticlesHandler
	Prayers        *handlers.PrayersHandler
	Messaging      *handlers.MessagingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Static segments are registered before
// the parameterised routes that would otherwise capture them.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	required := cfg.AuthMiddleware.Handle
	optional := cfg.AuthMiddleware.Optional

	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", required, cfg.Auth.Logout)
	authGroup.Get("/me", required, cfg.Auth.Me)
	authGroup.Patch("/me", required, cfg.Auth.UpdateMe)
	authGroup.Get("/users/:id", cfg.Auth.PublicProfile)
	authGroup.Get("/:userId/stats", required, cfg.Auth.Stats)
	authGroup.Get("/:userId/activity", required, cfg.Auth.Activity)

	market := app.Group("/marketplace")
	market.Get("/", cfg.Marketplace.List)
	market.Post("/", required, cfg.Marketplace.Create)
	market.Get("/:id", cfg.Marketplace.Get)
	market.Patch("/:id", required, cfg.Marketplace.Update)
	market.Delete("/:id", required, cfg.Marketplace.Delete)

	articles := app.Group("/articles")
	articles.Get("/", optional, cfg.Articles.List)
	articles.Post("/", required, cfg.Articles.Create)
	articles.Get("/categories", cfg.Articles.Categories)
	articles.Get("/by-slug/:slug", optional, cfg.Articles.GetBySlug)
	articles.Delete("/comments/:commentId", required, cfg.Articles.DeleteComment)
	articles.Post("/comments/:commentId/like", required, cfg.Articles.LikeComment)
	articles.Get("/:id", optional, cfg.Articles.Get)
	articles.Patch("/:id", required, cfg.Articles.Update)
	articles.Delete("/:id", required, cfg.Articles.Delete)
	articles.Post("/:id/like", required, cfg.Articles.Like)
	articles.Get("/:id/comments", optional, cfg.Articles.ListComments)
	articles.Post("/:id/comments", required, cfg.Articles.AddComment)

	prayers := app.Group("/prayers")
	prayers.Get("/", optional, cfg.Prayers.List)
	prayers.Post("/", required, cfg.Prayers.Create)
	prayers.Delete("/responses/:responseId", required, cfg.Prayers.DeleteResponse)
	prayers.Get("/:id", optional, cfg.Prayers.Get)
	prayers.Patch("/:id", required, cfg.Prayers.Update)
	prayers.Delete("/:id", required, cfg.Prayers.Delete)
	prayers.Post("/:id/support", required, cfg.Prayers.Support)
	prayers.Get("/:id/responses", optional, cfg.Prayers.ListResponses)
	prayers.Post("/:id/responses", required, cfg.Prayers.AddResponse)

	messaging := app.Group("/messaging", required)
	messaging.Get("/conversations", cfg.Messaging.ListConversations)
	messaging.Post("/conversations", cfg.Messaging.StartConversation)
	messaging.Get("/conversations/:id", cfg.Messaging.GetConversation)
	messaging.Post("/conversations/:id/mark_as_read", cfg.Messaging.MarkRead)
	messaging.Get("/messages", cfg.Messaging.ListMessages)
	messaging.Post("/messages", cfg.Messaging.SendMessage)
	messaging.Delete("/messages/:id", cfg.Messaging.DeleteMessage)
}
