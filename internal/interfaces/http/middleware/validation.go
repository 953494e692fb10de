package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/grasdvirus/prime-panier/internal/interfaces/http/dto"
)

// SetupValidator configures the gin validator to report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors turns a binding error into a 400 response body.
// Malformed JSON has no field details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Corps de requête invalide", requestID)
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: getValidationMessage(e),
		})
	}
	return dto.NewValidationErrorResponse(summarize(details), requestID, details)
}

// HandleValidationError writes the 400 response for a binding error
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// summarize names the first invalid field, which is what the storefront
// forms display
func summarize(details []dto.ValidationDetail) string {
	if len(details) == 0 {
		return "Données invalides"
	}
	return details[0].Field + " : " + details[0].Message
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Ce champ est requis"
	case "email":
		return "Format d'email invalide"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Doit contenir au moins " + e.Param() + " caractères"
		}
		return "Doit être au moins " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Doit contenir au plus " + e.Param() + " caractères"
		}
		return "Doit être au plus " + e.Param()
	case "oneof":
		return "Doit être l'une des valeurs : " + e.Param()
	case "gt":
		return "Doit être supérieur à " + e.Param()
	case "gte":
		return "Doit être supérieur ou égal à " + e.Param()
	case "dive":
		return "Élément invalide"
	default:
		return "Valeur invalide"
	}
}
