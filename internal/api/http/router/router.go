package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nkosarev/bookstore-server/internal/api/http/handler"
	"github.com/nkosarev/bookstore-server/internal/api/http/middleware"
	"github.com/nkosarev/bookstore-server/internal/logger"
)

// Router wires services to HTTP routes.
type Router struct {
	authService    handler.AuthService
	catalogService handler.CatalogService
	logger         *logger.Logger
}

// New creates a Router over the auth and catalog services.
func New(
	authService handler.AuthService,
	catalogService handler.CatalogService,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// Register builds the Echo instance with middleware and all routes.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	logging := middleware.NewLogging(r.logger)
	e.Use(logging.Handle)

	r.registerAuthRoutes(e)
	r.registerBookRoutes(e)

	return e
}

func (r *Router) registerAuthRoutes(e *echo.Echo) {
	authHandler := handler.NewAuth(r.authService, r.logger)

	g := e.Group("/api/auth")
	g.POST("/register", authHandler.Register)
	g.POST("/register-admin", authHandler.RegisterAdmin)
	g.GET("/confirm-email", authHandler.ConfirmEmail)
}

func (r *Router) registerBookRoutes(e *echo.Echo) {
	bookHandler := handler.NewBook(r.catalogService, r.logger)

	g := e.Group("/api/books")
	g.GET("", bookHandler.GetAll)
	g.GET("/search", bookHandler.Search)
	g.GET("/:id", bookHandler.GetByID)
	g.HEAD("/:id", bookHandler.Head)
	g.POST("", bookHandler.Create)
	g.PUT("/:id", bookHandler.Update)
	g.PATCH("/:id", bookHandler.UpdatePartial)
	g.DELETE("/:id", bookHandler.Delete)
	g.PUT("/:id/cover", bookHandler.UploadCover)
	g.GET("/:id/cover", bookHandler.GetCover)
}
