package routes

import (
	"net/http"
	"time"

	"busline/internal/agencies"
	"busline/internal/payments"
	"busline/internal/reservations"
	"busline/internal/seatmap"
	"busline/internal/selection"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/trips"
	"busline/pkg/cache"
	"busline/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	logger *logger.Logger

	// Built once, shared by dependent slices
	cacheService       cache.Service
	seatService        seatmap.Service
	tripService        trips.Service
	reservationService reservations.Service
	ticketPublisher    reservations.TicketPublisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
		logger: logger.GetDefault(),
	}
}

// SetTicketPublisher injects the notification pipeline; optional.
func (r *Router) SetTicketPublisher(publisher reservations.TicketPublisher) {
	r.ticketPublisher = publisher
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.db.Redis != nil {
		r.cacheService = cache.NewService(r.db.Redis)
	}

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAgencyRoutes(api)
		r.setupSeatMapRoutes(api)
		r.setupTripRoutes(api)
		r.setupSelectionRoutes(api)
		r.setupReservationRoutes(api)
		r.setupPaymentRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busline-api",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busline-api",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAgencyRoutes configures agency and company reference data routes
func (r *Router) setupAgencyRoutes(rg *gin.RouterGroup) {
	repo := agencies.NewRepository(r.db.PostgreSQL)
	service := agencies.NewService(repo)
	controller := agencies.NewController(service)

	agencies.SetupAgencyRoutes(rg, controller)
}

// setupSeatMapRoutes configures seat map browsing routes
func (r *Router) setupSeatMapRoutes(rg *gin.RouterGroup) {
	repo := seatmap.NewRepository(r.db.PostgreSQL, r.db.Redis)
	service := seatmap.NewService(repo, r.config)
	if r.cacheService != nil {
		service.SetCacheService(r.cacheService)
	}
	controller := seatmap.NewController(service)

	// Shared with trips, selection and reservations
	r.seatService = service

	seatmap.SetupSeatMapRoutes(rg, controller)
}

// setupTripRoutes configures trip search and admin trip management
func (r *Router) setupTripRoutes(rg *gin.RouterGroup) {
	repo := trips.NewRepository(r.db.PostgreSQL)
	service := trips.NewService(repo, r.seatService, r.config, r.logger.Logger)
	if r.cacheService != nil {
		service.SetCacheService(r.cacheService)
	}
	controller := trips.NewController(service)

	r.tripService = service

	trips.SetupTripRoutes(rg, controller)
}

// setupSelectionRoutes configures session seat selection routes
func (r *Router) setupSelectionRoutes(rg *gin.RouterGroup) {
	registry := selection.NewRegistry(r.config.Redis.SelectionTTL, r.config.Booking.MaxSeatsPerSelection)
	controller := selection.NewController(registry, r.seatService)

	selection.SetupSelectionRoutes(rg, controller)
}

// setupReservationRoutes configures the reservation lifecycle routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	repo := reservations.NewRepository(r.db.PostgreSQL)
	service := reservations.NewService(repo, r.seatService, reservations.NewPNRGenerator(), r.config, r.logger.Logger)
	if r.ticketPublisher != nil {
		service.SetPublisher(r.ticketPublisher)
	}
	controller := reservations.NewController(service, r.tripService)

	r.reservationService = service

	reservations.SetupReservationRoutes(rg, controller)
}

// setupPaymentRoutes configures payment processing routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	repo := payments.NewRepository(r.db.PostgreSQL)
	service := payments.NewService(repo, payments.NewMockGateway(), r.reservationService, r.logger.Logger)
	controller := payments.NewController(service)

	payments.SetupPaymentRoutes(rg, controller)
}
