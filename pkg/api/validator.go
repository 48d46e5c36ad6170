package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ssargent/shelf/pkg/codec"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("bookid", func(fl validator.FieldLevel) bool {
		return codec.IsValidISBN(fl.Field().String())
	})
	_ = validate.RegisterValidation("nodelim", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), codec.Delimiter+"\r\n")
	})
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateStruct validates a request body and returns one entry per failed field
func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	errs := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "bookid":
		return fmt.Sprintf("%s must be 10-13 digits or hyphens", fe.Field())
	case "nodelim":
		return fmt.Sprintf("%s must not contain %q or line breaks", fe.Field(), codec.Delimiter)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// summary joins validation errors into a single message for the error envelope
func summary(errs []ValidationError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
