package components

import (
	"campus-library/internal/handler"
	"campus-library/internal/handler/api"
	"campus-library/internal/handler/middleware"
	"campus-library/internal/infra/redis"
	"campus-library/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewCookieConfig,
		NewRateLimiter,
		NewResponseCache,
		api.NewAuthHandler,
		api.NewBookHandler,
		api.NewMemberHandler,
		api.NewLoanHandler,
		api.NewReservationHandler,
		api.NewCourseHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewCookieConfig(cfg config.Config) config.CookieConfig {
	return cfg.Cookie
}

func NewRateLimiter(client *redis.Client, cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(client, cfg.RateLimit)
}

func NewResponseCache(client *redis.Client, cfg config.Config) *middleware.ResponseCache {
	return middleware.NewResponseCache(client, cfg.RateLimit.BookListTTL)
}

func NewHandlers(
	auth *api.AuthHandler,
	book *api.BookHandler,
	member *api.MemberHandler,
	loan *api.LoanHandler,
	reservation *api.ReservationHandler,
	course *api.CourseHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:        auth,
		Book:        book,
		Member:      member,
		Loan:        loan,
		Reservation: reservation,
		Course:      course,
	}
}
