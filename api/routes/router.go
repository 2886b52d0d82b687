package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slotwise/slotwise-backend/api/controllers"
	"github.com/slotwise/slotwise-backend/api/middleware"
	availabilitysvc "github.com/slotwise/slotwise-backend/internal/availability"
	bookingsvc "github.com/slotwise/slotwise-backend/internal/bookings"
	menusvc "github.com/slotwise/slotwise-backend/internal/menus"
	"github.com/slotwise/slotwise-backend/pkg/config"
	"github.com/slotwise/slotwise-backend/pkg/db"
	"github.com/slotwise/slotwise-backend/pkg/logger"
	"github.com/slotwise/slotwise-backend/pkg/metrics"
	pkgredis "github.com/slotwise/slotwise-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *pkgredis.Client
	Metrics      *metrics.HTTPMetrics
	Registry     *prometheus.Registry
	Availability availabilitysvc.Service
	Menus        menusvc.Service
	Bookings     bookingsvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

	var redisP pkgredis.Pinger
	if p.Redis != nil {
		redisP = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, redisP))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/availability/vendor/{vendorId}", controllers.PublicAvailability(p.Availability, logg))
		r.Get("/vendors/{vendorId}/menu", controllers.PublicVendorMenu(p.Menus, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public read surface mirrored under the versioned prefix so mobile
		// clients can stay on one base path.
		r.Get("/availability/vendor/{vendorId}", controllers.PublicAvailability(p.Availability, logg))
		r.Get("/vendors/{vendorId}/menu", controllers.PublicVendorMenu(p.Menus, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			var idemStore pkgredis.IdempotencyStore
			if p.Redis != nil {
				idemStore = p.Redis
			}
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/ping", controllers.PrivatePing())

			r.Route("/availability", func(r chi.Router) {
				r.With(middleware.RequireRole("vendor", logg)).Post("/", controllers.DeclareAvailability(p.Availability, logg))
				r.With(middleware.RequireRole("vendor", logg)).Get("/", controllers.VendorAvailability(p.Availability, logg))
			})

			r.Route("/vendor/menu-items", func(r chi.Router) {
				r.Use(middleware.RequireRole("vendor", logg))
				r.Post("/", controllers.VendorCreateMenuItem(p.Menus, logg))
				r.Get("/", controllers.VendorListMenuItems(p.Menus, logg))
				r.Patch("/{itemId}", controllers.VendorUpdateMenuItem(p.Menus, logg))
				r.Delete("/{itemId}", controllers.VendorDeleteMenuItem(p.Menus, logg))
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", controllers.CreateBooking(p.Bookings, logg))
				r.Get("/my-bookings", controllers.MyBookings(p.Bookings, logg))
				r.With(middleware.RequireRole("vendor", logg)).Get("/vendor-bookings", controllers.VendorBookings(p.Bookings, logg))
				r.With(middleware.RequireRole("vendor", logg)).Patch("/{bookingId}/status", controllers.UpdateBookingStatus(p.Bookings, logg))
				r.Post("/{bookingId}/cancel", controllers.CancelBooking(p.Bookings, logg))
				r.With(middleware.RequireRole("vendor", logg)).Post("/{bookingId}/confirm", controllers.ConfirmBooking(p.Bookings, logg))
				r.With(middleware.RequireRole("vendor", logg)).Post("/{bookingId}/complete", controllers.CompleteBooking(p.Bookings, logg))
			})
		})
	})

	return r
}
