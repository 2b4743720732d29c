package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"bookstock/internal/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// ValidateStruct returns one detail per failed constraint, keyed by the JSON
// field name.
func ValidateStruct(s interface{}) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []httpx.ErrorDetail{{Field: "body", Message: err.Error()}}
	}

	details := make([]httpx.ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required", "required_if":
			message = fmt.Sprintf("%s is required", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
		case "min":
			message = fmt.Sprintf("%s must contain at least %s entries", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, httpx.ErrorDetail{Field: field, Message: message})
	}
	return details
}
