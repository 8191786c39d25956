package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateInput checks validate tags on in and maps failures to a 400.
func validateInput(code string, in any) error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return apierr.BadRequest(code, fmt.Errorf("%s is required", fe.Field()))
		case "oneof":
			return apierr.BadRequest(code, fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param()))
		default:
			return apierr.BadRequest(code, fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return apierr.BadRequest(code, err)
}
