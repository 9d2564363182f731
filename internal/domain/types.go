package domain

import "time"

type SessionID string

// SpreadSize is the number of slots in the Celtic Cross blueprint.
const SpreadSize = 10

// UnknownCardName is the sentinel name the card-recognition prompt returns
// when it cannot commit to a card and asks a clarifying question instead.
const UnknownCardName = "Unknown"

// NoCardName marks a fortune fragment that is not tied to any spread card
// (the topic introduction and the closing summary).
const NoCardName = "NONE"

// Gesture is an expressive cue the avatar performs while narrating a
// fortune fragment. The values mirror the avatar SDK identifiers.
type Gesture string

const (
	GestureSmile       Gesture = "Gestures.Smile"
	GestureBigSmile    Gesture = "Gestures.BigSmile"
	GestureExpressFear Gesture = "Gestures.ExpressFear"
	GestureWink        Gesture = "Gestures.Wink"
	GestureNod         Gesture = "Gestures.Nod"
	GestureShake       Gesture = "Gestures.Shake"
	GestureSurprise    Gesture = "Gestures.Surprise"
	GestureBrowRaise   Gesture = "Gestures.BrowRaise"
	GestureBrowFrown   Gesture = "Gestures.BrowFrown"
	GestureThoughtful  Gesture = "Gestures.Thoughtful"
)

// Gestures lists the full vocabulary, in a stable order. Fortune schemas
// enumerate exactly this set.
func Gestures() []Gesture {
	return []Gesture{
		GestureSmile,
		GestureBigSmile,
		GestureExpressFear,
		GestureWink,
		GestureNod,
		GestureShake,
		GestureSurprise,
		GestureBrowRaise,
		GestureBrowFrown,
		GestureThoughtful,
	}
}

// Valid reports whether g belongs to the fixed gesture vocabulary.
func (g Gesture) Valid() bool {
	for _, known := range Gestures() {
		if g == known {
			return true
		}
	}
	return false
}

// Card is a recognized tarot card in the spread. Position is the 1-based
// spread slot; position 0 is a transient "pending clarification" marker and
// is never persisted.
type Card struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// FortuneFragment is one narrated chunk of the generated reading. Card is
// the name of the related spread card, or NoCardName for the introduction
// and summary fragments.
type FortuneFragment struct {
	Content string  `json:"content"`
	Card    string  `json:"card"`
	Gesture Gesture `json:"gesture"`
}

// OpenQuestion is a follow-up question together with its generated answer.
// The pair is recorded atomically; a question is never stored without its
// answer.
type OpenQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Timestamp = time.Time
