package reservations

import (
	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {

	// RESERVATION LIFECYCLE

	res := rg.Group("/reservations")
	{
		res.POST("", controller.CreateReservation)              // POST /api/v1/reservations
		res.GET("", controller.ListReservations)                // GET /api/v1/reservations
		res.GET("/pnr/:pnr", controller.GetByPNR)               // GET /api/v1/reservations/pnr/:pnr
		res.GET("/:id", controller.GetReservation)              // GET /api/v1/reservations/:id
		res.PUT("/:id/passengers", controller.AttachPassengers) // PUT /api/v1/reservations/:id/passengers
		res.POST("/:id/cancel", controller.CancelReservation)   // POST /api/v1/reservations/:id/cancel
		res.GET("/:id/ticket", controller.DownloadTicket)       // GET /api/v1/reservations/:id/ticket
	}
}
