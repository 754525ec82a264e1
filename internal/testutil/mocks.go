package testutil

import (
	"time"

	"github.com/legendatm/lingoflow/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetStudyMode(userID int64) (domain.StudyMode, error) {
	args := m.Called(userID)
	return args.Get(0).(domain.StudyMode), args.Error(1)
}

func (m *MockUserRepository) SetStudyMode(userID int64, mode domain.StudyMode) error {
	args := m.Called(userID, mode)
	return args.Error(0)
}

// MockCardRepository is a mock for CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) SaveCard(card domain.Card) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *MockCardRepository) SaveCards(cards []domain.Card) error {
	args := m.Called(cards)
	return args.Error(0)
}

func (m *MockCardRepository) GetCard(userID int64, id string) (*domain.Card, error) {
	args := m.Called(userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) GetAllCards(userID int64) ([]domain.Card, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateScheduling(card domain.Card) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteCard(userID int64, id string) error {
	args := m.Called(userID, id)
	return args.Error(0)
}

func (m *MockCardRepository) ListCards(userID int64, limit, offset int) ([]domain.Card, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) SearchCards(userID int64, query string, limit, offset int) ([]domain.Card, error) {
	args := m.Called(userID, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) CountCards(userID int64) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) CountByStatus(userID int64) (map[domain.Status]int, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Status]int), args.Error(1)
}

func (m *MockCardRepository) DueCountsByUser(now time.Time) ([]domain.UserDueCount, error) {
	args := m.Called(now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserDueCount), args.Error(1)
}
