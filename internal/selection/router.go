package selection

import (
	"github.com/gin-gonic/gin"
)

func SetupSelectionRoutes(rg *gin.RouterGroup, controller *Controller) {

	// SESSION-SCOPED SEAT SELECTION

	sel := rg.Group("/selection")
	{
		sel.POST("/:tripId/toggle", controller.Toggle) // POST /api/v1/selection/:tripId/toggle
		sel.GET("", controller.GetSelection)           // GET /api/v1/selection
		sel.DELETE("", controller.ClearSelection)      // DELETE /api/v1/selection
	}
}
