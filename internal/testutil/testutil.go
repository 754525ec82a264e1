package testutil

import (
	"time"

	"github.com/legendatm/lingoflow/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, authorized bool) *domain.User {
	return &domain.User{
		UserID:     userID,
		Authorized: authorized,
		Mode:       domain.ModeCard,
		CreatedAt:  time.Now(),
	}
}

// NewTestCard creates a fresh card in the New stage
func NewTestCard(id string, userID int64, text, meaning string) domain.Card {
	return domain.Card{
		ID:         id,
		UserID:     userID,
		Text:       text,
		Meaning:    meaning,
		Status:     domain.StatusNew,
		EaseFactor: 2.5,
		CreatedAt:  time.Now(),
	}
}

// NewDueCard creates a reviewing card whose review time has already passed
func NewDueCard(id string, userID int64, text, meaning string, now time.Time) domain.Card {
	card := NewTestCard(id, userID, text, meaning)
	card.Status = domain.StatusReviewing
	card.IntervalDays = 1
	due := now.Add(-time.Hour)
	reviewed := now.AddDate(0, 0, -1)
	card.DueAt = &due
	card.LastReviewedAt = &reviewed
	card.ConsecutiveCorrect = 1
	return card
}
