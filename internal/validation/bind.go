package validation

import (
	"errors"
	"fmt"

	apperrors "github.com/fooddash/fooddash-backend/internal/errors"
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate binds the JSON body into out and validates it. On failure
// the 400 response is already written; the handler only has to return.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Request body is not valid JSON")
		return err
	}
	return Validate(c, out, v)
}

// BindQueryAndValidate does the same for query parameters.
func BindQueryAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindQuery(out); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Query parameters are not valid")
		return err
	}
	return Validate(c, out, v)
}

// Validate runs struct validation and writes the per-field error response.
func Validate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := v.Struct(out); err != nil {
		apperrors.RespondWithValidationError(c, FieldErrors(err))
		return err
	}
	return nil
}

// FieldErrors flattens validator errors into field -> message.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return fmt.Sprintf("is required when %s is set", fe.Param())
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "order_status":
		return "must be one of: pending, preparing, delivering, completed, cancelled"
	case "search_by":
		return "must be one of: all, order_number, customer_name, customer_email"
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}
