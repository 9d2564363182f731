// Package session owns the session lifecycle: create, card accumulation,
// fortune generation and follow-up answering. Every mutation is a shallow
// merge onto the document store's current snapshot, protected by an
// optimistic revision check with a single retry.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tvonment/tarot-backend/internal/domain"
	"github.com/tvonment/tarot-backend/internal/observability"
)

type Service struct {
	store  domain.SessionStore
	blobs  domain.ObjectStore
	oracle domain.Oracle
	now    func() time.Time
	newID  func() string
}

func NewService(store domain.SessionStore, blobs domain.ObjectStore, oracle domain.Oracle) *Service {
	return &Service{
		store:  store,
		blobs:  blobs,
		oracle: oracle,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateSession extracts a topic label from the raw phrase and persists a
// fresh session with empty cards, fortune and questions.
func (s *Service) CreateSession(ctx context.Context, phrase string) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx)
	log.Info("creating session", "phrase", phrase)

	topic, err := s.oracle.ExtractTopic(ctx, phrase)
	if err != nil {
		log.Error("topic extraction failed", "error", err)
		return nil, err
	}

	now := s.now()
	sess := &domain.Session{
		ID:            domain.SessionID(s.newID()),
		Topic:         topic,
		Cards:         []domain.Card{},
		Fortune:       []domain.FortuneFragment{},
		OpenQuestions: []domain.OpenQuestion{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, sess); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session created", "session_id", sess.ID, "topic", topic)
	return sess, nil
}

// GetSession returns nil without error when no session exists for the id.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	sess, _, err := s.store.Get(ctx, id)
	return sess, err
}

// AddCardsByFile reads the whole spread from a stored photograph and
// replaces the session's card list with the extracted one. Bulk overwrite,
// not an append; usable before or instead of card-by-card entry.
func (s *Service) AddCardsByFile(ctx context.Context, id domain.SessionID, fileName string) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", id)

	blueprintURL, err := s.blobs.BlueprintURL(ctx)
	if err != nil {
		log.Error("failed to resolve blueprint url", "error", err)
		return nil, err
	}
	spreadURL, err := s.blobs.CardImageURL(ctx, fileName)
	if err != nil {
		log.Error("failed to resolve card image url", "file", fileName, "error", err)
		return nil, err
	}

	cards, err := s.oracle.ReadSpreadImage(ctx, blueprintURL, spreadURL)
	if err != nil {
		log.Error("spread extraction failed", "error", err)
		return nil, err
	}

	updated, err := s.updateSession(ctx, id, func(*domain.Session) domain.SessionPatch {
		replacement := append([]domain.Card(nil), cards...)
		return domain.SessionPatch{Cards: &replacement}
	})
	if err != nil {
		return nil, err
	}

	log.Info("cards replaced from file", "file", fileName, "count", len(cards))
	return updated, nil
}

// AddCardByDescription runs card recognition over the clarification
// dialogue. When recognition cannot commit, the returned card carries the
// Unknown sentinel at position 0 and the stored session is left untouched;
// the caller re-invokes with the grown conversation. Otherwise the resolved
// card is appended at the requested position and persisted.
func (s *Service) AddCardByDescription(ctx context.Context, id domain.SessionID, position int, conversation []domain.ConversationTurn) (domain.Card, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", id)

	outcome, err := s.oracle.RecognizeCard(ctx, conversation)
	if err != nil {
		log.Error("card recognition failed", "error", err)
		return domain.Card{}, err
	}

	if outcome.NeedsClarification() {
		log.Info("card needs clarification", "turns", len(conversation))
		return domain.Card{
			Name:        domain.UnknownCardName,
			Description: outcome.Question,
			Position:    0,
		}, nil
	}

	card := *outcome.Card
	card.Position = position

	if _, err := s.updateSession(ctx, id, func(cur *domain.Session) domain.SessionPatch {
		cards := append(append([]domain.Card(nil), cur.Cards...), card)
		return domain.SessionPatch{Cards: &cards}
	}); err != nil {
		return domain.Card{}, err
	}

	log.Info("card appended", "card", card.Name, "position", position)
	return card, nil
}

// AddFortune generates the reading for the session's full card list and
// overwrites fortune and summary in one persisted update. A session
// without cards is rejected before anything is written.
func (s *Service) AddFortune(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", id)

	sess, _, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	if len(sess.Cards) == 0 {
		return nil, domain.ErrNoCards
	}

	reading, err := s.oracle.TellFortune(ctx, sess.Topic, sess.Cards)
	if err != nil {
		log.Error("fortune generation failed", "error", err)
		return nil, err
	}

	updated, err := s.updateSession(ctx, id, func(*domain.Session) domain.SessionPatch {
		fortune := append([]domain.FortuneFragment(nil), reading.Fragments...)
		summary := reading.Summary
		return domain.SessionPatch{Fortune: &fortune, FortuneSummary: &summary}
	})
	if err != nil {
		return nil, err
	}

	log.Info("fortune generated", "fragments", len(reading.Fragments))
	return updated, nil
}

// AddOpenQuestion answers a follow-up question and appends the pair to the
// session. The pair is recorded only when persistence succeeds; a failed
// write surfaces as an error and nothing is considered durably answered.
func (s *Service) AddOpenQuestion(ctx context.Context, id domain.SessionID, question string) (string, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", id)

	sess, _, err := s.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", domain.ErrSessionNotFound
	}

	answer, err := s.oracle.AnswerQuestion(ctx, sess, question)
	if err != nil {
		log.Error("follow-up answer failed", "error", err)
		return "", err
	}

	if _, err := s.updateSession(ctx, id, func(cur *domain.Session) domain.SessionPatch {
		questions := append(append([]domain.OpenQuestion(nil), cur.OpenQuestions...), domain.OpenQuestion{
			Question: question,
			Answer:   answer,
		})
		return domain.SessionPatch{OpenQuestions: &questions}
	}); err != nil {
		return "", err
	}

	log.Info("open question answered")
	return answer, nil
}

// UploadCardImage stores a card photograph in the object store and returns
// its URL. Asset ingestion only; the reading cycle never uploads.
func (s *Service) UploadCardImage(ctx context.Context, fileName string, data []byte) (string, error) {
	url, err := s.blobs.UploadCardImage(ctx, fileName, data)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("card image upload failed", "file", fileName, "error", err)
		return "", err
	}
	return url, nil
}

// updateSession implements the read-merge-write cycle. build receives the
// freshly read session so appends are computed against the store's current
// value; on a revision conflict the whole cycle runs exactly once more.
func (s *Service) updateSession(ctx context.Context, id domain.SessionID, build func(*domain.Session) domain.SessionPatch) (*domain.Session, error) {
	updated, err := s.applyPatch(ctx, id, build)
	if errors.Is(err, domain.ErrStaleWrite) {
		observability.LoggerFromContext(ctx).Info("retrying after stale write", "session_id", id)
		updated, err = s.applyPatch(ctx, id, build)
	}
	return updated, err
}

func (s *Service) applyPatch(ctx context.Context, id domain.SessionID, build func(*domain.Session) domain.SessionPatch) (*domain.Session, error) {
	sess, rev, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}

	merged := sess.Clone()
	build(sess).ApplyTo(merged)
	merged.UpdatedAt = s.now()

	if err := s.store.Replace(ctx, merged, rev); err != nil {
		return nil, err
	}
	return merged, nil
}
