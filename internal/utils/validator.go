// internal/utils/validator.go
package utils

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var serialNumberPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{6,30}[A-Z0-9]$`)

// QuizOptionChecker reports whether option is a valid answer for question.
type QuizOptionChecker func(question, option string) bool

var (
	quizOptionsMu sync.RWMutex
	quizOptions   QuizOptionChecker
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("quiz_option", validateQuizOption)
	validate.RegisterValidation("serial_number", validateSerialNumber)
}

// SetQuizOptionChecker installs the lookup used by the quiz_option tag. Until
// one is installed every option passes.
func SetQuizOptionChecker(checker QuizOptionChecker) {
	quizOptionsMu.Lock()
	defer quizOptionsMu.Unlock()
	quizOptions = checker
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateQuizOption(fl validator.FieldLevel) bool {
	quizOptionsMu.RLock()
	checker := quizOptions
	quizOptionsMu.RUnlock()

	if checker == nil {
		return true
	}
	return checker(fl.Param(), fl.Field().String())
}

func validateSerialNumber(fl validator.FieldLevel) bool {
	return serialNumberPattern.MatchString(fl.Field().String())
}

// NormalizeSerialNumber uppercases and strips spaces so that serials typed
// from a label compare equal.
func NormalizeSerialNumber(serial string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(serial), " ", ""))
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "quiz_option":
		return e.Field() + " is not a known answer for the " + e.Param() + " question"
	case "serial_number":
		return "Serial number must be 8-32 letters, digits or dashes"
	default:
		return e.Field() + " is invalid"
	}
}
