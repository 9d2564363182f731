package domain

import (
	"context"
	"time"
)

// Revision is an optimistic concurrency token handed out by Get and checked
// by Replace. A zero revision never matches a stored document.
type Revision struct {
	UpdateTime time.Time
}

// SessionStore defines session persistence against the document store.
//
// Get returns (nil, Revision{}, nil) when no document exists for the id;
// absence is a result, not an error, at this boundary.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id SessionID) (*Session, Revision, error)
	// Replace overwrites the stored document. It fails with
	// ErrSessionNotFound when the document is absent and with
	// ErrStaleWrite when rev no longer matches the stored revision.
	Replace(ctx context.Context, session *Session, rev Revision) error
}

// ObjectStore resolves card imagery in the pre-provisioned containers. The
// URL lookups are pure; nothing is uploaded on read.
type ObjectStore interface {
	CardImageURL(ctx context.Context, fileName string) (string, error)
	BlueprintURL(ctx context.Context) (string, error)
	UploadCardImage(ctx context.Context, fileName string, data []byte) (string, error)
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn sent to the inference service. ImageURLs, when
// set on a user turn, are delivered as vision attachments.
type ChatMessage struct {
	Role      ChatRole
	Text      string
	ImageURLs []string
}

// StructuredSchema constrains a completion to a closed JSON shape. Schema
// is a JSON-schema document; the service is contracted to return output
// conforming exactly to it.
type StructuredSchema struct {
	Name   string
	Schema map[string]any
}

// InferenceClient sends prompts to the LLM endpoint. Network and service
// failures propagate unmodified; no retry happens at this layer.
type InferenceClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
	CompleteStructured(ctx context.Context, messages []ChatMessage, schema StructuredSchema) ([]byte, error)
}

// ConversationTurn is one (assistant question, user description) pair from
// the card-recognition dialogue.
type ConversationTurn struct {
	Question    string `json:"question"`
	Description string `json:"description"`
}

// CardOutcome is the result of card recognition: either a committed card or
// a single clarifying question. Exactly one of the two is populated; the
// legacy "Unknown"/position-0 sentinel is produced only at the JSON
// boundary.
type CardOutcome struct {
	Card     *Card
	Question string
}

// NeedsClarification reports whether recognition could not commit to a
// card.
func (o CardOutcome) NeedsClarification() bool {
	return o.Card == nil
}

// FortuneReading is a generated fortune: ordered fragments plus a one-line
// summary derived alongside them.
type FortuneReading struct {
	Fragments []FortuneFragment
	Summary   string
}

// Oracle builds the prompt templates and parses LLM responses into domain
// records. Every operation is a pure function of its inputs plus one
// inference call; structured-output deviations surface as
// ErrSchemaViolation.
type Oracle interface {
	// ExtractTopic turns a free-form phrase into a short topic label. The
	// output is unconstrained text and is stored verbatim; casing and
	// punctuation are not normalized.
	ExtractTopic(ctx context.Context, phrase string) (string, error)
	// ReadSpreadImage identifies every card and its spread position from a
	// photo, guided by the blueprint layout image.
	ReadSpreadImage(ctx context.Context, blueprintURL, spreadURL string) ([]Card, error)
	// RecognizeCard commits to a card from the conversation so far, or
	// returns a clarifying question.
	RecognizeCard(ctx context.Context, conversation []ConversationTurn) (CardOutcome, error)
	// TellFortune generates the reading for the full ordered card list.
	TellFortune(ctx context.Context, topic string, cards []Card) (FortuneReading, error)
	// AnswerQuestion answers a free-text follow-up with the session's
	// topic, cards, fortune and prior Q&A as context.
	AnswerQuestion(ctx context.Context, session *Session, question string) (string, error)
}
