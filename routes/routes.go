package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/clients"
	"github.com/joy095/taxibooking/config"
	"github.com/joy095/taxibooking/controllers"
	"github.com/joy095/taxibooking/metrics"
	middleware "github.com/joy095/taxibooking/middlewares"
	"github.com/joy095/taxibooking/public"
	"github.com/joy095/taxibooking/services"
	"github.com/joy095/taxibooking/views"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the built services the router hands to its controllers.
type Deps struct {
	Config   config.Config
	Views    *views.Renderer
	Bookings *services.BookingService
	// Design is nil when the design integration is not configured.
	Design  clients.DesignClientWrapper
	Metrics *metrics.Metrics
}

// SetupRouter builds the engine with the middleware chain and every route.
func SetupRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	r.HTMLRender = d.Views

	pages := controllers.NewPageController(d.Views, d.Config.IsDevelopment(), d.Design != nil && d.Config.Design.Enabled())

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.SecurityHeaders(),
		middleware.CorsMiddleware(d.Config.CORSOrigins),
	)
	throttle := middleware.GlobalRateLimiter(d.Config.RateLimit.GlobalRPS, d.Config.RateLimit.GlobalBurst, d.Metrics, pages.TooManyRequests)

	r.GET("/health", pages.Health)
	r.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	r.StaticFS("/assets", public.Assets())

	RegisterBookingRoutes(r, controllers.NewBookingController(pages, d.Bookings), throttle)
	RegisterDesignRoutes(r, controllers.NewDesignController(pages, d.Design, d.Config.SessionSecret, d.Metrics))

	r.NoRoute(pages.NotFound)
	return r, nil
}
