package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tvonment/tarot-backend/internal/domain"
)

// Mock is a canned inference client so the whole flow runs without the
// real service. Structured responses are keyed on the schema name and
// always conform to the schema they answer.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Complete(_ context.Context, messages []domain.ChatMessage) (string, error) {
	// Single user message means topic extraction; everything else is a
	// follow-up answer with a system prompt in front.
	if len(messages) == 1 && messages[0].Role == domain.RoleUser {
		return "Future Career", nil
	}
	return "The cards whisper that patience will reward you.", nil
}

func (m *Mock) CompleteStructured(_ context.Context, _ []domain.ChatMessage, schema domain.StructuredSchema) ([]byte, error) {
	switch schema.Name {
	case "card_spread":
		return json.Marshal(map[string]any{
			"cards": []map[string]any{
				{"name": "The Fool", "description": "A traveler at the cliff's edge, new beginnings.", "position": 1},
				{"name": "The Magician", "description": "A figure channeling will into action.", "position": 2},
				{"name": "The Sun", "description": "Radiant joy and clarity.", "position": 3},
			},
		})
	case "card_recognition":
		return json.Marshal(map[string]any{
			"name":        "The Fool",
			"description": "A traveler at the cliff's edge, new beginnings.",
		})
	case "fortune_reading":
		// NONE is in every card enumeration, so these fragments validate
		// against any dynamically built schema.
		return json.Marshal(map[string]any{
			"fragments": []map[string]any{
				{"content": "The mists part around your question.", "card": domain.NoCardName, "gesture": string(domain.GestureThoughtful)},
				{"content": "A new path opens where you least expect it.", "card": domain.NoCardName, "gesture": string(domain.GestureSmile)},
				{"content": "Walk it with a light heart; the cards favor you.", "card": domain.NoCardName, "gesture": string(domain.GestureBigSmile)},
			},
			"summary": "A hopeful reading about new beginnings.",
		})
	default:
		return nil, fmt.Errorf("mock: unknown schema %q", schema.Name)
	}
}
