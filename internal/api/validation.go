package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/itemguard/moderation-api/internal/models"
)

var tagNamesOnce sync.Once

// registerValidatorTagNames makes validation errors report json field names
// instead of Go struct field names, so the loc path matches what the client
// actually sent.
func registerValidatorTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// translateBindingError converts a gin binding failure into the detail list
// contract: one entry per offending field with its path and constraint kind.
func translateBindingError(err error) []models.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []models.FieldError{{
			Loc:  []string{"body", typeErr.Field},
			Type: "type_mismatch",
		}}
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]models.FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, models.FieldError{
				Loc:  []string{"body", fe.Field()},
				Type: constraintKind(fe),
			})
		}
		return details
	}

	// Malformed JSON, empty body, etc.
	return []models.FieldError{{Loc: []string{"body"}, Type: "invalid_body"}}
}

// constraintKind maps validator tags to the symbolic kinds clients branch on
func constraintKind(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case "gt":
		return "greater_than"
	case "gte":
		return "greater_than_equal"
	case "min":
		if fe.Kind() == reflect.String {
			return "string_too_short"
		}
		return "greater_than_equal"
	case "max":
		if fe.Kind() == reflect.String {
			return "string_too_long"
		}
		return "less_than_equal"
	}
	return fe.Tag()
}

// parseItemID validates the item_id query parameter. Returns a non-nil
// FieldError when the value is missing, non-numeric or not positive.
func parseItemID(raw string) (int64, *models.FieldError) {
	if raw == "" {
		return 0, &models.FieldError{Loc: []string{"query", "item_id"}, Type: "missing"}
	}

	itemID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &models.FieldError{Loc: []string{"query", "item_id"}, Type: "type_mismatch"}
	}
	if itemID <= 0 {
		return 0, &models.FieldError{Loc: []string{"query", "item_id"}, Type: "greater_than"}
	}

	return itemID, nil
}
