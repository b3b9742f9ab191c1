package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/nearby/api/internal/auth"
	"github.com/octobees/nearby/api/internal/config"
	"github.com/octobees/nearby/api/internal/entity"
	"github.com/octobees/nearby/api/internal/handler"
	middlewarepkg "github.com/octobees/nearby/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Search      *handler.SearchHandler
	Businesses  *handler.BusinessesHandler
	Places      *handler.PlacesHandler
	Favorites   *handler.FavoritesHandler
	AdminUpload *handler.AdminUploadHandler
}

// Register wires all HTTP routes for the API and the client IP policy used by
// the review rate limit. Every route sees an identity; anonymous callers may
// search, read and review.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.IPExtractor = middlewarepkg.ClientIPExtractor(cfg.TrustedProxies)

	e.GET("/healthz", handlers.Health.Check)

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	api := e.Group("", middlewarepkg.Identify(jwtManager))
	reviewLimit := middlewarepkg.ReviewRateLimiter(cfg.RateLimitReviews)
	authenticated := middlewarepkg.RequireAuthenticated()

	api.GET("/search/nearby", handlers.Search.Combined)
	api.GET("/businesses/nearby", handlers.Search.Internal)
	api.GET("/external/places", handlers.Search.External)
	api.GET("/external/places/:id", handlers.Places.Details)
	api.POST("/external/reviews/:businessId", handlers.Places.CreateReview, reviewLimit)

	api.POST("/businesses", handlers.Businesses.Create, middlewarepkg.RequireRole(entity.RoleOwner, entity.RoleAdmin))
	api.GET("/businesses/:id", handlers.Businesses.Get)
	api.PUT("/businesses/:id", handlers.Businesses.Update, authenticated)
	api.GET("/businesses/:id/reviews", handlers.Businesses.ListReviews)
	api.POST("/businesses/:id/reviews", handlers.Businesses.CreateReview, reviewLimit)

	favorites := api.Group("/favorites", authenticated)
	favorites.GET("", handlers.Favorites.List)
	favorites.POST("/:businessId", handlers.Favorites.Toggle)

	admin := api.Group("/admin", middlewarepkg.RequireRole(entity.RoleAdmin))
	admin.POST("/businesses/upload-csv", handlers.AdminUpload.UploadCSV)
}
