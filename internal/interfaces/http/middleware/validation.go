package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/dto"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Custom binding tags
const (
	TagSlotDate = "slotdate"
	TagSlotTime = "slottime"
	TagSlug     = "slug"
)

var setupOnce sync.Once

// SetupValidator names fields after their json (or form) tag and registers
// the site's custom tags on gin's validator. Repeated calls are no-ops.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		registerCustomTags(v)
	})
}

func registerCustomTags(v *validator.Validate) {
	// errors here only signal an empty tag or nil func
	_ = v.RegisterValidation(TagSlotDate, layoutValidator(booking.DateLayout))
	_ = v.RegisterValidation(TagSlotTime, layoutValidator(booking.TimeLayout))
	_ = v.RegisterValidation(TagSlug, func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

func layoutValidator(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return fld.Name
}

// FormatValidationErrors converts a binding error into the error envelope.
// Non-validator errors (malformed JSON, type mismatches) carry no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details = make([]dto.ValidationDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: getValidationMessage(fe),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation envelope
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

type messageFunc func(fe validator.FieldError) string

func fixed(msg string) messageFunc {
	return func(validator.FieldError) string { return msg }
}

func withParam(prefix string) messageFunc {
	return func(fe validator.FieldError) string { return prefix + fe.Param() }
}

// lengthOrValue words min/max for strings as a character count
func lengthOrValue(prefix string) messageFunc {
	return func(fe validator.FieldError) string {
		if fe.Kind() == reflect.String {
			return prefix + fe.Param() + " characters"
		}
		return prefix + fe.Param()
	}
}

var validationMessages = map[string]messageFunc{
	"required": fixed("This field is required"),
	"email":    fixed("Invalid email format"),
	"uuid":     fixed("Invalid UUID format"),
	"url":      fixed("Invalid URL format"),
	"numeric":  fixed("Must be numeric"),
	"dive":     fixed("Invalid list entry"),
	"min":      lengthOrValue("Must be at least "),
	"max":      lengthOrValue("Must be at most "),
	"len":      lengthOrValue("Must be exactly "),
	"oneof":    withParam("Must be one of: "),
	"gte":      withParam("Must be greater than or equal to "),
	"lte":      withParam("Must be less than or equal to "),
	"gt":       withParam("Must be greater than "),
	"lt":       withParam("Must be less than "),
	"datetime": withParam("Must be a date in the format "),

	TagSlotDate: fixed("Must be a date in the format YYYY-MM-DD"),
	TagSlotTime: fixed("Must be a time in the format HH:MM"),
	TagSlug:     fixed("Must be lowercase words joined by single dashes"),
}

func getValidationMessage(fe validator.FieldError) string {
	if msg, ok := validationMessages[fe.Tag()]; ok {
		return msg(fe)
	}
	return "Invalid value"
}
