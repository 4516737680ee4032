package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campus-library/internal/domain/user"
	"campus-library/internal/handler/api"
	"campus-library/internal/handler/middleware"
	"campus-library/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth        *api.AuthHandler
	Book        *api.BookHandler
	Member      *api.MemberHandler
	Loan        *api.LoanHandler
	Reservation *api.ReservationHandler
	Course      *api.CourseHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	responseCache *middleware.ResponseCache,
) {
	setupMiddleware(engine, cfg, rateLimiter)
	setupRoutes(engine, handlers, authMiddleware, rateLimiter, responseCache)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, rateLimiter *middleware.RateLimiter) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(rateLimiter.API())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	responseCache *middleware.ResponseCache,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staffOnly := authMiddleware.RequireRole(user.RoleAdmin, user.RoleProfessor)
	adminOnly := authMiddleware.RequireRole(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register, Mw: []gin.HandlerFunc{rateLimiter.Auth()}},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login, Mw: []gin.HandlerFunc{rateLimiter.Auth()}},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh, Mw: []gin.HandlerFunc{rateLimiter.Auth()}},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		books := apiGroup.Group("/books")
		books.Use(authMiddleware.RequireAuth())
		{
			addRoutes(books, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Book.List, Mw: []gin.HandlerFunc{responseCache.Cached("books")}},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Book.Get, Mw: []gin.HandlerFunc{responseCache.Cached("book")}},
				{Method: http.MethodPost, Path: "", Handler: h.Book.Create, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Book.Delete, Mw: []gin.HandlerFunc{staffOnly}},
			})
		}

		members := apiGroup.Group("/members")
		members.Use(authMiddleware.RequireAuth(), staffOnly)
		{
			addRoutes(members, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Member.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Member.Get},
				{Method: http.MethodGet, Path: "/:id/eligibility", Handler: h.Member.Eligibility},
				{Method: http.MethodPost, Path: "", Handler: h.Member.Create},
				{Method: http.MethodPut, Path: "/:id", Handler: h.Member.Update},
			})
		}

		loans := apiGroup.Group("/loans")
		loans.Use(authMiddleware.RequireAuth(), staffOnly)
		{
			addRoutes(loans, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Loan.List},
				{Method: http.MethodPost, Path: "", Handler: h.Loan.Create},
				{Method: http.MethodPost, Path: "/:id/return", Handler: h.Loan.Return},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.List, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/book/:bookId", Handler: h.Reservation.ListByBook},
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.Create},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservation.Cancel},
			})
		}

		courses := apiGroup.Group("/courses")
		courses.Use(authMiddleware.RequireAuth())
		{
			addRoutes(courses, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Course.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Course.Get},
				{Method: http.MethodPost, Path: "", Handler: h.Course.Create, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/sections", Handler: h.Course.CreateSection, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/sections/:sectionId/enrollments", Handler: h.Course.Enroll, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/enrollments/:enrollmentId", Handler: h.Course.DropEnrollment, Mw: []gin.HandlerFunc{staffOnly}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		// Route middleware goes through gin's own chain so handlers that
		// rely on c.Next() (the response cache) see the downstream output.
		hs := append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, hs...)
		case http.MethodPost:
			g.POST(r.Path, hs...)
		case http.MethodPut:
			g.PUT(r.Path, hs...)
		case http.MethodPatch:
			g.PATCH(r.Path, hs...)
		case http.MethodDelete:
			g.DELETE(r.Path, hs...)
		default:
			g.Any(r.Path, hs...)
		}
	}
}
