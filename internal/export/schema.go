package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// PurchaseOrderJSONSchema returns the JSON-Schema of an exported order as a generic map.
func PurchaseOrderJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"cart_part_no":      map[string]any{"type": "string", "minLength": 1},
			"country_of_origin": map[string]any{"type": "string"},
			"a_unit":            map[string]any{"type": "string"},
			"qty":               map[string]any{"type": "integer", "minimum": 0},
			"rate_include_gst":  map[string]any{"type": "number", "minimum": 0},
			"total_cost":        map[string]any{"type": "number", "minimum": 0},
			"nomenclature":      map[string]any{"type": "string"},
		},
		"required": []string{"cart_part_no", "nomenclature"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"po_number":    map[string]any{"type": "string", "minLength": 1},
			"order_date":   map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"total_qty":    map[string]any{"type": "integer", "minimum": 0},
			"total_amount": map[string]any{"type": "number", "minimum": 0},
			"items":        map[string]any{"type": "array", "items": item},
		},
		"required": []string{"po_number", "order_date", "total_qty", "total_amount", "items"},
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
