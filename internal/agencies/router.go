package agencies

import (
	"busline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAgencyRoutes(rg *gin.RouterGroup, controller *Controller) {

	// PUBLIC REFERENCE DATA

	ag := rg.Group("/agencies")
	{
		ag.GET("", controller.ListAgencies) // GET /api/v1/agencies?city=
		ag.GET("/:id", controller.GetAgency) // GET /api/v1/agencies/:id
	}

	companies := rg.Group("/companies")
	{
		companies.GET("", controller.ListCompanies) // GET /api/v1/companies
	}

	// ADMIN REFERENCE DATA

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/agencies", controller.CreateAgency)   // POST /api/v1/admin/agencies
		admin.POST("/companies", controller.CreateCompany) // POST /api/v1/admin/companies
	}
}
