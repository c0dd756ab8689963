// internal/lookup/schema.go
package lookup

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ResponseSchemaName identifies the declared output schema in the request.
const ResponseSchemaName = "menu_safety_analysis"

// ResponseSchema is the fixed three-tier classification contract. The same
// schema is declared on the outgoing request and enforced on the reply, so
// the provider cannot smuggle in a fourth safety category.
func ResponseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"restaurantName": map[string]interface{}{
				"type":        "string",
				"description": "The restaurant the analysis applies to",
			},
			"restaurantInfo": map[string]interface{}{
				"type":        "string",
				"description": "Free-text summary of allergen exposure at this restaurant",
			},
			"foods": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": map[string]interface{}{
							"type": "string",
						},
						"safetyClassification": map[string]interface{}{
							"type": "string",
							"enum": []interface{}{"More Safe", "Questionable", "Avoid"},
						},
						"reasoning": map[string]interface{}{
							"type": "string",
						},
						"questions": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "string"},
						},
					},
					"required":             []interface{}{"name", "safetyClassification", "reasoning", "questions"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []interface{}{"restaurantName", "restaurantInfo", "foods"},
		"additionalProperties": false,
	}
}

// validatePayload checks a raw reply against the declared schema and
// returns a description of every violation.
func validatePayload(raw string) error {
	schemaLoader := gojsonschema.NewGoLoader(ResponseSchema())
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema violations: %s", strings.Join(errs, "; "))
	}

	return nil
}
