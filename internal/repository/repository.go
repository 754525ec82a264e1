package repository

import (
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
	GetStudyMode(userID int64) (domain.StudyMode, error)
	SetStudyMode(userID int64, mode domain.StudyMode) error
}

// CardRepository defines card data operations.
// Scheduling fields change only through UpdateScheduling with a card value
// produced by the scheduler; display content is written once at creation.
type CardRepository interface {
	SaveCard(card domain.Card) error
	SaveCards(cards []domain.Card) error
	GetCard(userID int64, id string) (*domain.Card, error)
	GetAllCards(userID int64) ([]domain.Card, error)
	UpdateScheduling(card domain.Card) error
	DeleteCard(userID int64, id string) error
	ListCards(userID int64, limit, offset int) ([]domain.Card, error)
	SearchCards(userID int64, query string, limit, offset int) ([]domain.Card, error)
	CountCards(userID int64) (int, error)
	CountByStatus(userID int64) (map[domain.Status]int, error)
	DueCountsByUser(now time.Time) ([]domain.UserDueCount, error)
}
