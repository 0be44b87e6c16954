package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medcita/clinic-api/internal/model"
)

// init registers the datetime format check referenced by binding tags on
// request payloads, so malformed dates are rejected at bind time.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("clinic_datetime", func(fl validator.FieldLevel) bool {
			_, err := model.ParseDateTimeInput(fl.Field().String())
			return err == nil
		})
	}
}
