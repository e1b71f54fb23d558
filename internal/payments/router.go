package payments

import (
	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {

	// PAYMENT PROCESSING

	pay := rg.Group("/payments")
	{
		pay.POST("", controller.Pay)           // POST /api/v1/payments
		pay.GET("/:id", controller.GetPayment) // GET /api/v1/payments/:id
	}

	res := rg.Group("/reservations")
	{
		res.GET("/:id/payments", controller.ListByReservation) // GET /api/v1/reservations/:id/payments
	}
}
