package validation

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Bind decodes the request body into `out` according to its Content-Type
// (form-encoded or JSON) and runs validation. The caller decides how to
// render the failure; FieldErrors gives a per-field view of it.
func Bind(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBind(out); err != nil {
		return err
	}
	return v.Struct(out)
}

// FieldErrors flattens a validation error into field -> message.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.Field()] = fe.Error()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
