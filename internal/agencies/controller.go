package agencies

import (
	"errors"
	"net/http"

	"busline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// AGENCIES

func (c *Controller) ListAgencies(ctx *gin.Context) {
	city := ctx.Query("city")

	agencies, err := c.service.ListAgencies(ctx.Request.Context(), city)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list agencies", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Agencies retrieved successfully", agencies, nil)
}

func (c *Controller) GetAgency(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Agency ID is required", nil, "missing agency ID")
		return
	}

	agency, err := c.service.GetAgency(ctx.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrAgencyNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get agency", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Agency retrieved successfully", agency, nil)
}

func (c *Controller) CreateAgency(ctx *gin.Context) {
	var req CreateAgencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	agency, err := c.service.CreateAgency(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create agency", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Agency created successfully", agency, nil)
}

// COMPANIES

func (c *Controller) ListCompanies(ctx *gin.Context) {
	companies, err := c.service.ListCompanies(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list companies", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Companies retrieved successfully", companies, nil)
}

func (c *Controller) CreateCompany(ctx *gin.Context) {
	var req CreateCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	company, err := c.service.CreateCompany(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create company", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Company created successfully", company, nil)
}
