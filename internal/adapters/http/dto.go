package httpadapter

import (
	"time"

	"github.com/tvonment/tarot-backend/internal/domain"
)

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Topic string `json:"topic"`
}

type cardsByFileRequest struct {
	SessionID    string `json:"sessionId"`
	CardFileName string `json:"cardFileName"`
}

type conversationTurn struct {
	Question    string `json:"question"`
	Description string `json:"description"`
}

type cardByDescriptionRequest struct {
	SessionID    string             `json:"sessionId"`
	Conversation []conversationTurn `json:"conversation"`
	Position     int                `json:"position"`
}

type fortuneRequest struct {
	SessionID string `json:"sessionId"`
}

type answerOpenQuestionRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type cardResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type fragmentResponse struct {
	Content string `json:"content"`
	Card    string `json:"card"`
	Gesture string `json:"gesture"`
}

type openQuestionResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type sessionResponse struct {
	ID             string                 `json:"id"`
	Topic          string                 `json:"topic"`
	State          string                 `json:"state"`
	Cards          []cardResponse         `json:"cards"`
	Fortune        []fragmentResponse     `json:"fortune"`
	FortuneSummary string                 `json:"fortuneSummary,omitempty"`
	OpenQuestions  []openQuestionResponse `json:"openQuestions"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	cards := make([]cardResponse, 0, len(s.Cards))
	for _, c := range s.Cards {
		cards = append(cards, toCardResponse(c))
	}

	fortune := make([]fragmentResponse, 0, len(s.Fortune))
	for _, f := range s.Fortune {
		fortune = append(fortune, fragmentResponse{
			Content: f.Content,
			Card:    f.Card,
			Gesture: string(f.Gesture),
		})
	}

	questions := make([]openQuestionResponse, 0, len(s.OpenQuestions))
	for _, q := range s.OpenQuestions {
		questions = append(questions, openQuestionResponse{Question: q.Question, Answer: q.Answer})
	}

	return sessionResponse{
		ID:             string(s.ID),
		Topic:          s.Topic,
		State:          string(s.State()),
		Cards:          cards,
		Fortune:        fortune,
		FortuneSummary: s.FortuneSummary,
		OpenQuestions:  questions,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toCardResponse(c domain.Card) cardResponse {
	return cardResponse{Name: c.Name, Description: c.Description, Position: c.Position}
}

func toConversation(turns []conversationTurn) []domain.ConversationTurn {
	out := make([]domain.ConversationTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, domain.ConversationTurn{Question: t.Question, Description: t.Description})
	}
	return out
}
