package seatmap

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatMapRoutes(rg *gin.RouterGroup, controller *Controller) {

	// PUBLIC SEAT MAP BROWSING

	trips := rg.Group("/trips")
	{
		trips.GET("/:tripId/seatmap", controller.GetSeatMap) // GET /api/v1/trips/:tripId/seatmap
	}

	seats := rg.Group("/seats")
	{
		seats.POST("/availability", controller.CheckSeatAvailability) // POST /api/v1/seats/availability
	}
}
