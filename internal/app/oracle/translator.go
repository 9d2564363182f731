package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tvonment/tarot-backend/internal/domain"
	"github.com/tvonment/tarot-backend/internal/observability"
)

// Translator implements domain.Oracle on top of an inference client. Each
// operation builds one prompt, makes one completion call and parses the
// result; there are no retries and no partial salvage.
type Translator struct {
	llm domain.InferenceClient
}

func NewTranslator(llm domain.InferenceClient) *Translator {
	return &Translator{llm: llm}
}

// ExtractTopic returns the model's label verbatim apart from surrounding
// whitespace. No schema is enforced here, so casing and punctuation are
// whatever the model produced.
func (t *Translator) ExtractTopic(ctx context.Context, phrase string) (string, error) {
	prompt, err := render("topic.tmpl", topicData{Phrase: phrase})
	if err != nil {
		return "", err
	}

	text, err := t.llm.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Text: prompt},
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Error("topic extraction failed", "error", err)
		return "", err
	}

	return strings.TrimSpace(text), nil
}

func (t *Translator) ReadSpreadImage(ctx context.Context, blueprintURL, spreadURL string) ([]domain.Card, error) {
	system, err := render("spread_image.tmpl", spreadImageData{SpreadSize: domain.SpreadSize})
	if err != nil {
		return nil, err
	}

	schema := spreadSchema()
	raw, err := t.llm.CompleteStructured(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Text: system},
		{
			Role:      domain.RoleUser,
			Text:      "The first image is the blueprint, the second is the photograph of the spread.",
			ImageURLs: []string{blueprintURL, spreadURL},
		},
	}, schema)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("spread image extraction failed", "error", err)
		return nil, err
	}

	if err := validate(schema, raw); err != nil {
		return nil, err
	}

	var parsed struct {
		Cards []domain.Card `json:"cards"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: card_spread: %v", domain.ErrSchemaViolation, err)
	}
	return parsed.Cards, nil
}

// RecognizeCard replays the clarification dialogue and asks the model to
// commit or to ask one more question. The "Unknown" name is the only
// discriminator between the two outcomes; the disambiguation text itself
// must stay natural language.
func (t *Translator) RecognizeCard(ctx context.Context, conversation []domain.ConversationTurn) (domain.CardOutcome, error) {
	system, err := render("card_recognition.tmpl", recognitionData{UnknownName: domain.UnknownCardName})
	if err != nil {
		return domain.CardOutcome{}, err
	}

	messages := []domain.ChatMessage{{Role: domain.RoleSystem, Text: system}}
	for _, turn := range conversation {
		if turn.Question != "" {
			messages = append(messages, domain.ChatMessage{Role: domain.RoleAssistant, Text: turn.Question})
		}
		messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Text: turn.Description})
	}

	schema := recognitionSchema()
	raw, err := t.llm.CompleteStructured(ctx, messages, schema)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("card recognition failed", "error", err)
		return domain.CardOutcome{}, err
	}

	if err := validate(schema, raw); err != nil {
		return domain.CardOutcome{}, err
	}

	var parsed struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.CardOutcome{}, fmt.Errorf("%w: card_recognition: %v", domain.ErrSchemaViolation, err)
	}

	if parsed.Name == domain.UnknownCardName {
		return domain.CardOutcome{Question: parsed.Description}, nil
	}
	return domain.CardOutcome{
		Card: &domain.Card{Name: parsed.Name, Description: parsed.Description},
	}, nil
}

func (t *Translator) TellFortune(ctx context.Context, topic string, cards []domain.Card) (domain.FortuneReading, error) {
	system, err := render("fortune.tmpl", fortuneData{
		Topic:  topic,
		Cards:  cards,
		NoCard: domain.NoCardName,
	})
	if err != nil {
		return domain.FortuneReading{}, err
	}

	schema := fortuneSchema(cards)
	raw, err := t.llm.CompleteStructured(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Text: system},
		{Role: domain.RoleUser, Text: "Tell the fortune for this spread now."},
	}, schema)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("fortune generation failed", "error", err)
		return domain.FortuneReading{}, err
	}

	if err := validate(schema, raw); err != nil {
		return domain.FortuneReading{}, err
	}

	var parsed struct {
		Fragments []domain.FortuneFragment `json:"fragments"`
		Summary   string                   `json:"summary"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.FortuneReading{}, fmt.Errorf("%w: fortune_reading: %v", domain.ErrSchemaViolation, err)
	}

	return domain.FortuneReading{Fragments: parsed.Fragments, Summary: parsed.Summary}, nil
}

// AnswerQuestion replays the prior open questions as alternating turns so
// the model keeps its earlier answers consistent.
func (t *Translator) AnswerQuestion(ctx context.Context, session *domain.Session, question string) (string, error) {
	system, err := render("followup.tmpl", followupData{
		Topic:          session.Topic,
		Cards:          session.Cards,
		Fortune:        session.Fortune,
		FortuneSummary: session.FortuneSummary,
	})
	if err != nil {
		return "", err
	}

	messages := []domain.ChatMessage{{Role: domain.RoleSystem, Text: system}}
	for _, oq := range session.OpenQuestions {
		messages = append(messages,
			domain.ChatMessage{Role: domain.RoleUser, Text: oq.Question},
			domain.ChatMessage{Role: domain.RoleAssistant, Text: oq.Answer},
		)
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Text: question})

	answer, err := t.llm.Complete(ctx, messages)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("follow-up answer failed", "error", err)
		return "", err
	}

	return strings.TrimSpace(answer), nil
}
