package predictor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the minimum shape a 2xx prediction body must have
// before it is trusted. A truncated or proxied-through HTML body must
// surface as a malformed-response error, not as a zero-valued verdict.
const resultSchema = `{
	"type": "object",
	"required": ["status", "approved", "breakdown"],
	"properties": {
		"status": {"type": "string"},
		"approved": {"type": "boolean"},
		"approval_probability": {"type": "number"},
		"loan_type": {"type": "string"},
		"sanctioned_amount": {"type": "number"},
		"monthly_emi": {"type": "number"},
		"rejection_reasons": {
			"type": "array",
			"items": {"type": "string"}
		},
		"breakdown": {
			"type": "object",
			"required": ["financial_health", "credit_profile", "loan_metrics"],
			"properties": {
				"financial_health": {"type": "object"},
				"credit_profile": {"type": "object"},
				"loan_metrics": {"type": "object"}
			}
		}
	}
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// validateResultShape checks body against resultSchema and reports every
// violation in one message.
func validateResultShape(body []byte) error {
	result, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("response shape invalid: %s", strings.Join(violations, "; "))
}
