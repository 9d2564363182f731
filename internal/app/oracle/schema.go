package oracle

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tvonment/tarot-backend/internal/domain"
)

// The inference API constrains structured output to a top-level JSON
// object, so list results are carried under a single required property.

func spreadSchema() domain.StructuredSchema {
	return domain.StructuredSchema{
		Name: "card_spread",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"cards"},
			"properties": map[string]any{
				"cards": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"name", "description", "position"},
						"properties": map[string]any{
							"name":        map[string]any{"type": "string"},
							"description": map[string]any{"type": "string"},
							"position": map[string]any{
								"type":    "integer",
								"minimum": 1,
								"maximum": domain.SpreadSize,
							},
						},
					},
				},
			},
		},
	}
}

func recognitionSchema() domain.StructuredSchema {
	return domain.StructuredSchema{
		Name: "card_recognition",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"name", "description"},
			"properties": map[string]any{
				"name":        map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
			},
		},
	}
}

// fortuneSchema closes the card field over the participating card names
// plus the NONE sentinel. The enumeration is rebuilt from the current card
// list on every call; a stale enumeration from an earlier spread would
// accept cards that are no longer on the table.
func fortuneSchema(cards []domain.Card) domain.StructuredSchema {
	cardNames := make([]string, 0, len(cards)+1)
	for _, c := range cards {
		cardNames = append(cardNames, c.Name)
	}
	cardNames = append(cardNames, domain.NoCardName)

	gestures := make([]string, 0, len(domain.Gestures()))
	for _, g := range domain.Gestures() {
		gestures = append(gestures, string(g))
	}

	return domain.StructuredSchema{
		Name: "fortune_reading",
		Schema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"fragments", "summary"},
			"properties": map[string]any{
				"fragments": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"content", "card", "gesture"},
						"properties": map[string]any{
							"content": map[string]any{"type": "string"},
							"card":    map[string]any{"type": "string", "enum": cardNames},
							"gesture": map[string]any{"type": "string", "enum": gestures},
						},
					},
				},
				"summary": map[string]any{"type": "string"},
			},
		},
	}
}

// validate checks a raw structured response against the schema that was
// sent with the request. Any deviation is a hard ErrSchemaViolation; there
// is no best-effort recovery.
func validate(schema domain.StructuredSchema, raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema.Schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSchemaViolation, schema.Name, err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return fmt.Errorf("%w: %s: %s", domain.ErrSchemaViolation, schema.Name, strings.Join(details, "; "))
	}
	return nil
}
