// Package response holds the JSON envelope every handler replies with.
package response

import "github.com/gin-gonic/gin"

// StandardApiResponse is the envelope for all API replies. Status is either
// "success" or "error"; Data carries the payload, Errors carries validation
// or failure details. Both are omitted when empty.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	StatusCode int         `json:"status_code"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// RespondJSON writes the envelope with the given HTTP status code.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		Message:    message,
		StatusCode: code,
		Data:       data,
		Errors:     errors,
	})
}
