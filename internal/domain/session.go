package domain

// Session is the persisted aggregate tracking one fortune-telling
// interaction end-to-end. ID is assigned once at creation and never
// mutated; it doubles as the document store key.
type Session struct {
	ID             SessionID         `json:"id"`
	Topic          string            `json:"topic"`
	Cards          []Card            `json:"cards"`
	Fortune        []FortuneFragment `json:"fortune"`
	FortuneSummary string            `json:"fortuneSummary,omitempty"`
	OpenQuestions  []OpenQuestion    `json:"openQuestions"`
	CreatedAt      Timestamp         `json:"createdAt"`
	UpdatedAt      Timestamp         `json:"updatedAt"`
}

// State is the lifecycle phase of a session.
type State string

const (
	// StateCreated: topic set, no cards yet.
	StateCreated State = "created"
	// StateCardsResolving: cards partially populated, or a pending
	// position-0 placeholder awaiting clarification.
	StateCardsResolving State = "cards_resolving"
	// StateCardsComplete: full spread recognized, fortune not generated.
	StateCardsComplete State = "cards_complete"
	// StateFortuneReady: fortune generated, no follow-up questions yet.
	StateFortuneReady State = "fortune_ready"
	// StateAnswering: follow-up Q&A in progress. Not terminal; answering
	// can recur indefinitely.
	StateAnswering State = "answering"
)

// State derives the lifecycle phase from the populated fields. The rule is
// purely a function of the aggregate so concurrent readers always agree
// with the stored document.
func (s *Session) State() State {
	switch {
	case len(s.Fortune) > 0 && len(s.OpenQuestions) > 0:
		return StateAnswering
	case len(s.Fortune) > 0:
		return StateFortuneReady
	case len(s.Cards) == 0:
		return StateCreated
	case s.hasPendingCard() || len(s.Cards) < SpreadSize:
		return StateCardsResolving
	default:
		return StateCardsComplete
	}
}

func (s *Session) hasPendingCard() bool {
	for _, c := range s.Cards {
		if c.Position == 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate freely without aliasing
// the stored slices.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Cards = append([]Card(nil), s.Cards...)
	out.Fortune = append([]FortuneFragment(nil), s.Fortune...)
	out.OpenQuestions = append([]OpenQuestion(nil), s.OpenQuestions...)
	return &out
}

// SessionPatch is a partial update. Nil fields are preserved from the
// store's current snapshot, not from the caller's in-memory copy; set
// fields overwrite entirely. Applying the same patch twice yields the same
// state as applying it once.
type SessionPatch struct {
	Topic          *string
	Cards          *[]Card
	Fortune        *[]FortuneFragment
	FortuneSummary *string
	OpenQuestions  *[]OpenQuestion
}

// ApplyTo shallow-merges the patch onto s.
func (p SessionPatch) ApplyTo(s *Session) {
	if p.Topic != nil {
		s.Topic = *p.Topic
	}
	if p.Cards != nil {
		s.Cards = append([]Card(nil), *p.Cards...)
	}
	if p.Fortune != nil {
		s.Fortune = append([]FortuneFragment(nil), *p.Fortune...)
	}
	if p.FortuneSummary != nil {
		s.FortuneSummary = *p.FortuneSummary
	}
	if p.OpenQuestions != nil {
		s.OpenQuestions = append([]OpenQuestion(nil), *p.OpenQuestions...)
	}
}
