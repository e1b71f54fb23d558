package trips

import (
	"busline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTripRoutes(rg *gin.RouterGroup, controller *Controller) {

	// PUBLIC TRIP SEARCH

	public := rg.Group("/trips")
	{
		public.GET("", controller.SearchTrips)       // GET /api/v1/trips?from=&to=&date=&sort=
		public.GET("/:tripId", controller.GetTrip)   // GET /api/v1/trips/:tripId
	}

	// ADMIN TRIP MANAGEMENT

	admin := rg.Group("/admin/trips")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateTrip)              // POST /api/v1/admin/trips
		admin.DELETE("/:tripId", controller.DeleteTrip)    // DELETE /api/v1/admin/trips/:tripId
	}
}
