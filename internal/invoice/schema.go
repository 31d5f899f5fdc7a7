package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildUserFieldsJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// as a generic map for the user-supplied portion of an assist request.
// Every property is optional — OCR backfills — but anything present must
// already be well-formed.
func BuildUserFieldsJSONSchema() map[string]any {
	props := map[string]any{
		"invoice_number":   map[string]any{"type": "string", "minLength": 1, "maxLength": 50},
		"invoice_amount":   decimalProp(),
		"invoice_date":     dateProp(),
		"due_date":         dateProp(),
		"supplier_kra_pin": pinProp(),
		"buyer_kra_pin":    pinProp(),
		"buyer_name":       map[string]any{"type": "string", "minLength": 1, "maxLength": 120},
		"seller_name":      map[string]any{"type": "string", "minLength": 1, "maxLength": 120},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,2})?$`,
	}
}

func dateProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}

func pinProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^[A-Za-z0-9]{11}$`,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
