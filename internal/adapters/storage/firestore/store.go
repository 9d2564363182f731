// Package firestore implements the session document store on Cloud
// Firestore. Documents live in the "sessions" collection keyed by session
// id; the snapshot update time doubles as the optimistic revision token.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tvonment/tarot-backend/internal/domain"
)

const sessionsCollection = "sessions"

type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) doc(id domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection(sessionsCollection).Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore document types
// ─────────────────────────────────────────

type sessionDoc struct {
	Topic          string        `firestore:"topic"`
	Cards          []cardDoc     `firestore:"cards"`
	Fortune        []fragmentDoc `firestore:"fortune"`
	FortuneSummary string        `firestore:"fortune_summary"`
	OpenQuestions  []questionDoc `firestore:"open_questions"`
	CreatedAt      time.Time     `firestore:"created_at"`
	UpdatedAt      time.Time     `firestore:"updated_at"`
}

type cardDoc struct {
	Name        string `firestore:"name"`
	Description string `firestore:"description"`
	Position    int    `firestore:"position"`
}

type fragmentDoc struct {
	Content string `firestore:"content"`
	Card    string `firestore:"card"`
	Gesture string `firestore:"gesture"`
}

type questionDoc struct {
	Question string `firestore:"question"`
	Answer   string `firestore:"answer"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	_, err := s.doc(session.ID).Create(ctx, toDoc(session))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrSessionExists
		}
		return fmt.Errorf("firestore Create: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.Session, domain.Revision, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.Revision{}, nil
		}
		return nil, domain.Revision{}, fmt.Errorf("firestore Get: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, domain.Revision{}, fmt.Errorf("firestore Get decode: %w", err)
	}

	return fromDoc(id, doc), domain.Revision{UpdateTime: snap.UpdateTime}, nil
}

// Replace overwrites the stored document inside a transaction so the
// revision comparison and the write are atomic.
func (s *Store) Replace(ctx context.Context, session *domain.Session, rev domain.Revision) error {
	ref := s.doc(session.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if !snap.UpdateTime.Equal(rev.UpdateTime) {
			return domain.ErrStaleWrite
		}
		return tx.Set(ref, toDoc(session))
	})
	if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrStaleWrite) {
		return err
	}
	if err != nil {
		return fmt.Errorf("firestore Replace: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────

func toDoc(s *domain.Session) sessionDoc {
	cards := make([]cardDoc, 0, len(s.Cards))
	for _, c := range s.Cards {
		cards = append(cards, cardDoc{Name: c.Name, Description: c.Description, Position: c.Position})
	}

	fortune := make([]fragmentDoc, 0, len(s.Fortune))
	for _, f := range s.Fortune {
		fortune = append(fortune, fragmentDoc{Content: f.Content, Card: f.Card, Gesture: string(f.Gesture)})
	}

	questions := make([]questionDoc, 0, len(s.OpenQuestions))
	for _, q := range s.OpenQuestions {
		questions = append(questions, questionDoc{Question: q.Question, Answer: q.Answer})
	}

	return sessionDoc{
		Topic:          s.Topic,
		Cards:          cards,
		Fortune:        fortune,
		FortuneSummary: s.FortuneSummary,
		OpenQuestions:  questions,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func fromDoc(id domain.SessionID, doc sessionDoc) *domain.Session {
	cards := make([]domain.Card, 0, len(doc.Cards))
	for _, c := range doc.Cards {
		cards = append(cards, domain.Card{Name: c.Name, Description: c.Description, Position: c.Position})
	}

	fortune := make([]domain.FortuneFragment, 0, len(doc.Fortune))
	for _, f := range doc.Fortune {
		fortune = append(fortune, domain.FortuneFragment{Content: f.Content, Card: f.Card, Gesture: domain.Gesture(f.Gesture)})
	}

	questions := make([]domain.OpenQuestion, 0, len(doc.OpenQuestions))
	for _, q := range doc.OpenQuestions {
		questions = append(questions, domain.OpenQuestion{Question: q.Question, Answer: q.Answer})
	}

	return &domain.Session{
		ID:             id,
		Topic:          doc.Topic,
		Cards:          cards,
		Fortune:        fortune,
		FortuneSummary: doc.FortuneSummary,
		OpenQuestions:  questions,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
