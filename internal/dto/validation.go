package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/Chafic123/Attendance-Backend/internal/calendar"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidations installs the custom binding rules:
//
//	weekdays  a weekday pattern such as "MWF"
//	hhmm      a 24h wall-clock time "HH:MM"
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("weekdays", func(fl validator.FieldLevel) bool {
		return calendar.ValidPattern(calendar.NormalizePattern(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
}
