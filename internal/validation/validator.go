package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// an alert names either a committed plot or a failed one, never both
	v.RegisterStructValidation(alertPayloadStructValidation, AlertPayload{})

	return v
}

func alertPayloadStructValidation(sl validatorv10.StructLevel) {
	p := sl.Current().Interface().(AlertPayload)

	switch {
	case p.Success == "" && p.Failure == "":
		sl.ReportError(p.Success, "success", "Success", "success_or_failure", "")
	case p.Success != "" && p.Failure != "":
		sl.ReportError(p.Failure, "failure", "Failure", "excluded_with_success", "")
	}
}
