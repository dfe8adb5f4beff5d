package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fooddash/fooddash-backend/internal/app/model"
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator that reports fields by their json names and
// knows the order_status and search_by tags.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "order_status", func(fl validatorv10.FieldLevel) bool {
		_, ok := model.ParseOrderStatus(fl.Field().String())
		return ok
	})
	mustRegister(v, "search_by", func(fl validatorv10.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "all", "order_number", "customer_name", "customer_email":
			return true
		}
		return false
	})

	return v
}

// mustRegister panics when a tag cannot be registered, like regexp.MustCompile.
func mustRegister(v *validatorv10.Validate, tag string, fn validatorv10.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}
