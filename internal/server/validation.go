// internal/server/validation.go
package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/errors"
)

// searchRequestSchema validates the raw search payload before criteria
// are built. Interval-ordering (min <= max) and date ordering are
// checked in code; everything structural lives here.
var searchRequestSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"location":  map[string]interface{}{"type": "string"},
		"check_in":  map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"check_out": map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"guests":    map[string]interface{}{"type": "integer", "minimum": 1},
		"booking_type": map[string]interface{}{
			"type": "string",
			"enum": []string{"daily", "monthly", "flexible"},
		},
		"flexible_option": map[string]interface{}{"type": "string"},
		"duration_months": map[string]interface{}{"type": "integer", "minimum": 1},
		"sort_by": map[string]interface{}{
			"type": "string",
			"enum": []string{"", "price_asc", "price_desc", "bedrooms_desc", "title"},
		},
		"filters": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"price_range": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"min": map[string]interface{}{"type": "number", "minimum": 0},
						"max": map[string]interface{}{"type": "number", "minimum": 0},
					},
					"required": []string{"min", "max"},
				},
				"property_types": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
				"amenities": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
				"bedrooms":  map[string]interface{}{"type": "integer", "minimum": 0},
				"bathrooms": map[string]interface{}{"type": "integer", "minimum": 0},
				"booking_type": map[string]interface{}{
					"type": "string",
					"enum": []string{"daily", "monthly", "flexible"},
				},
			},
		},
	},
}

// validateSearchPayload checks the decoded request body against the
// schema and the interval-ordering rule.
func validateSearchPayload(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(searchRequestSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return apperrors.NewValidationError(strings.Join(details, "; "))
	}

	if filters, ok := payload["filters"].(map[string]interface{}); ok {
		if pr, ok := filters["price_range"].(map[string]interface{}); ok {
			min, _ := pr["min"].(float64)
			max, _ := pr["max"].(float64)
			if min > max {
				return apperrors.NewValidationError(
					fmt.Sprintf("price_range min (%v) must not exceed max (%v)", min, max))
			}
		}
	}

	return nil
}
