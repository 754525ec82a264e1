package service

import (
	"fmt"
	"testing"

	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCardService_AddCard(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		meaning       string
		phonetic      string
		mockError     error
		expectedError bool
	}{
		{
			name:     "valid card",
			text:     "hello",
			meaning:  "你好",
			phonetic: "/həˈləʊ/",
		},
		{
			name:    "whitespace is trimmed",
			text:    "  hello  ",
			meaning: " 你好 ",
		},
		{
			name:          "empty word",
			text:          "",
			meaning:       "你好",
			expectedError: true,
		},
		{
			name:          "empty meaning",
			text:          "hello",
			meaning:       "   ",
			expectedError: true,
		},
		{
			name:          "database error",
			text:          "hello",
			meaning:       "你好",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockCardRepository)

			if tt.text != "" && tt.meaning != "" && tt.meaning != "   " {
				mockRepo.On("SaveCard", mock.AnythingOfType("domain.Card")).Return(tt.mockError)
			}

			service := NewCardService(mockRepo)

			card, err := service.AddCard(123, tt.text, tt.meaning, tt.phonetic)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, card.ID)
				assert.Equal(t, "hello", card.Text)
				assert.Equal(t, "你好", card.Meaning)
				assert.Equal(t, domain.StatusNew, card.Status)
				assert.Equal(t, 0, card.IntervalDays)
				assert.InDelta(t, 2.5, card.EaseFactor, 1e-9)
				assert.Nil(t, card.DueAt)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_ImportText(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedCount int
		expectedError bool
	}{
		{
			name:          "tab separated lines",
			text:          "hello\t你好\nworld\t世界",
			expectedCount: 2,
		},
		{
			name:          "dash separated lines",
			text:          "hello - 你好\nworld - 世界",
			expectedCount: 2,
		},
		{
			name:          "pipe separated lines",
			text:          "hello | 你好",
			expectedCount: 1,
		},
		{
			name:          "bad lines are skipped",
			text:          "hello\t你好\n\njust a word\nworld\t世界",
			expectedCount: 2,
		},
		{
			name:          "nothing parsable",
			text:          "no separators here\nnone here either",
			expectedError: true,
		},
		{
			name:          "empty input",
			text:          "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockCardRepository)

			if !tt.expectedError {
				mockRepo.On("SaveCards", mock.MatchedBy(func(cards []domain.Card) bool {
					return len(cards) == tt.expectedCount
				})).Return(nil)
			}

			service := NewCardService(mockRepo)

			count, err := service.ImportText(123, tt.text)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCount, count)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_ImportText_SaveError(t *testing.T) {
	mockRepo := new(testutil.MockCardRepository)
	mockRepo.On("SaveCards", mock.Anything).Return(fmt.Errorf("db error"))

	service := NewCardService(mockRepo)

	_, err := service.ImportText(123, "hello\t你好")

	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCardService_ListCards(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		expectedOffset int
		mockCards      []domain.Card
		mockTotal      int
		expectedPages  int
	}{
		{
			name:           "first page",
			page:           1,
			expectedOffset: 0,
			mockCards:      []domain.Card{testutil.NewTestCard("c1", 123, "hello", "你好")},
			mockTotal:      14,
			expectedPages:  2,
		},
		{
			name:           "page zero defaults to 1",
			page:           0,
			expectedOffset: 0,
			mockCards:      []domain.Card{},
			mockTotal:      0,
			expectedPages:  1,
		},
		{
			name:           "second page",
			page:           2,
			expectedOffset: 7,
			mockCards:      []domain.Card{testutil.NewTestCard("c8", 123, "world", "世界")},
			mockTotal:      8,
			expectedPages:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockCardRepository)
			mockRepo.On("ListCards", int64(123), 7, tt.expectedOffset).Return(tt.mockCards, nil)
			mockRepo.On("CountCards", int64(123)).Return(tt.mockTotal, nil)

			service := NewCardService(mockRepo)

			cards, totalPages, err := service.ListCards(123, tt.page)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedPages, totalPages)
			assert.Len(t, cards, len(tt.mockCards))
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_ListCards_Errors(t *testing.T) {
	t.Run("list error", func(t *testing.T) {
		mockRepo := new(testutil.MockCardRepository)
		mockRepo.On("ListCards", int64(123), 7, 0).Return(nil, fmt.Errorf("db error"))

		service := NewCardService(mockRepo)

		_, _, err := service.ListCards(123, 1)
		assert.Error(t, err)
	})

	t.Run("count error", func(t *testing.T) {
		mockRepo := new(testutil.MockCardRepository)
		mockRepo.On("ListCards", int64(123), 7, 0).Return([]domain.Card{}, nil)
		mockRepo.On("CountCards", int64(123)).Return(0, fmt.Errorf("db error"))

		service := NewCardService(mockRepo)

		_, _, err := service.ListCards(123, 1)
		assert.Error(t, err)
	})
}

func TestCardService_SearchCards(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectSearch  bool
		expectedError bool
	}{
		{
			name:         "valid query",
			query:        "hel",
			expectSearch: true,
		},
		{
			name:          "empty query",
			query:         "   ",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockCardRepository)

			if tt.expectSearch {
				mockRepo.On("SearchCards", int64(123), "hel", 7, 0).
					Return([]domain.Card{testutil.NewTestCard("c1", 123, "hello", "你好")}, nil)
			}

			service := NewCardService(mockRepo)

			cards, err := service.SearchCards(123, tt.query, 1)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, cards, 1)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_DeleteCard(t *testing.T) {
	mockRepo := new(testutil.MockCardRepository)
	mockRepo.On("DeleteCard", int64(123), "c1").Return(nil)

	service := NewCardService(mockRepo)

	err := service.DeleteCard(123, "c1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
