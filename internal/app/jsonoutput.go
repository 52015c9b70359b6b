package app

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"academy-qabot/internal/model"
)

var codeFencePattern = regexp.MustCompile("(?s)^```[A-Za-z]*\\s*(.*?)\\s*```$")

// stripCodeFence removes a markdown code fence around a model's JSON reply.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if m := codeFencePattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// decodeStructured validates a model reply against schema and decodes it
// into out.
func decodeStructured(raw string, schema map[string]any, out any) error {
	doc := []byte(stripCodeFence(raw))

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("parse json output failed: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("json output failed validation: %s", strings.Join(details, "; "))
	}

	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("decode json output failed: %w", err)
	}
	return nil
}

func routeSchema() map[string]any {
	enum := make([]string, 0, len(model.RoutableCategories))
	for _, c := range model.RoutableCategories {
		enum = append(enum, c.String())
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{"type": "string", "enum": enum},
		},
		"required": []string{"category"},
	}
}

func dateSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dates": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "pattern": "^[0-9]{8}$"},
			},
		},
		"required": []string{"dates"},
	}
}
