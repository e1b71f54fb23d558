package trips

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"busline/internal/seatmap"
)

// RegisterValidations wires the custom binding tags used by trip payloads.
// Call once during server startup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("layouttype", validLayoutType)
}

func validLayoutType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case seatmap.LayoutTwoPlusOne, seatmap.LayoutTwoPlusTwo:
		return true
	}
	return false
}
