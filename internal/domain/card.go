package domain

import "time"

// Status is the learning stage of a card.
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// Valid reports whether s is one of the four known stages.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReviewing, StatusMastered:
		return true
	}
	return false
}

// Outcome is the user's grade for a single review.
// Mirrors the three study buttons: 忘记 / 模糊 / 认识.
type Outcome int

const (
	OutcomeForgot Outcome = iota
	OutcomeVague
	OutcomeKnow
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeForgot:
		return "forgot"
	case OutcomeVague:
		return "vague"
	case OutcomeKnow:
		return "know"
	}
	return "unknown"
}

// Card is one vocabulary item plus its spaced-repetition state.
// Display content (Text, Meaning, Phonetic) is immutable after creation;
// scheduling fields change only through the scheduler's grade operation.
type Card struct {
	ID       string
	UserID   int64
	Text     string
	Meaning  string
	Phonetic string

	Status             Status
	IntervalDays       int
	EaseFactor         float64
	DueAt              *time.Time // nil for cards never scheduled (New)
	LastReviewedAt     *time.Time // nil if never graded
	ConsecutiveCorrect int

	CreatedAt time.Time
}

// Due reports whether the card is eligible for review at the given time.
// New cards are always eligible.
func (c Card) Due(now time.Time) bool {
	if c.Status == StatusNew {
		return true
	}
	return c.DueAt != nil && !c.DueAt.After(now)
}

// UserDueCount pairs a user with their number of due cards,
// used by the daily reminder digest.
type UserDueCount struct {
	UserID   int64
	DueCards int
}
