package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvonment/tarot-backend/internal/domain"
)

func fullSpread() []domain.Card {
	cards := make([]domain.Card, domain.SpreadSize)
	for i := range cards {
		cards[i] = domain.Card{Name: "Card", Position: i + 1}
	}
	return cards
}

func TestSessionState(t *testing.T) {
	tests := []struct {
		name    string
		session domain.Session
		want    domain.State
	}{
		{
			name:    "fresh session",
			session: domain.Session{Topic: "Future Career"},
			want:    domain.StateCreated,
		},
		{
			name:    "partial spread",
			session: domain.Session{Cards: []domain.Card{{Name: "The Fool", Position: 1}}},
			want:    domain.StateCardsResolving,
		},
		{
			name:    "pending placeholder",
			session: domain.Session{Cards: append(fullSpread(), domain.Card{Name: domain.UnknownCardName, Position: 0})},
			want:    domain.StateCardsResolving,
		},
		{
			name:    "full spread",
			session: domain.Session{Cards: fullSpread()},
			want:    domain.StateCardsComplete,
		},
		{
			name: "fortune generated",
			session: domain.Session{
				Cards:   fullSpread(),
				Fortune: []domain.FortuneFragment{{Content: "x", Card: domain.NoCardName}},
			},
			want: domain.StateFortuneReady,
		},
		{
			name: "answering",
			session: domain.Session{
				Cards:         fullSpread(),
				Fortune:       []domain.FortuneFragment{{Content: "x", Card: domain.NoCardName}},
				OpenQuestions: []domain.OpenQuestion{{Question: "q", Answer: "a"}},
			},
			want: domain.StateAnswering,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.session.State())
		})
	}
}

func TestSessionPatchApplyTo(t *testing.T) {
	sess := &domain.Session{
		ID:    "s1",
		Topic: "Love Life",
		Cards: []domain.Card{{Name: "The Fool", Position: 1}},
	}

	fortune := []domain.FortuneFragment{{Content: "intro", Card: domain.NoCardName, Gesture: domain.GestureSmile}}
	summary := "a hopeful reading"
	patch := domain.SessionPatch{Fortune: &fortune, FortuneSummary: &summary}

	patch.ApplyTo(sess)

	assert.Equal(t, fortune, sess.Fortune)
	assert.Equal(t, summary, sess.FortuneSummary)
	// untouched fields survive
	assert.Equal(t, "Love Life", sess.Topic)
	require.Len(t, sess.Cards, 1)

	// applying the same patch twice is idempotent
	patch.ApplyTo(sess)
	assert.Equal(t, fortune, sess.Fortune)
	assert.Equal(t, summary, sess.FortuneSummary)
}

func TestSessionCloneIsIndependent(t *testing.T) {
	sess := &domain.Session{
		ID:            "s1",
		Cards:         []domain.Card{{Name: "The Fool", Position: 1}},
		OpenQuestions: []domain.OpenQuestion{{Question: "q", Answer: "a"}},
	}

	clone := sess.Clone()
	clone.Cards[0].Name = "The Tower"
	clone.OpenQuestions = append(clone.OpenQuestions, domain.OpenQuestion{Question: "q2", Answer: "a2"})

	assert.Equal(t, "The Fool", sess.Cards[0].Name)
	assert.Len(t, sess.OpenQuestions, 1)
}

func TestGestureValid(t *testing.T) {
	for _, g := range domain.Gestures() {
		assert.True(t, g.Valid(), g)
	}
	assert.False(t, domain.Gesture("Gestures.Backflip").Valid())
	assert.False(t, domain.Gesture("").Valid())
}
