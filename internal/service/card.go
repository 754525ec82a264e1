package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/repository"
	"github.com/legendatm/lingoflow/internal/scheduler"

	"github.com/google/uuid"
)

const pageSize = 7

// CardService handles word-list management: adding, browsing, searching,
// importing and deleting cards.
type CardService struct {
	cardRepo repository.CardRepository
}

// NewCardService creates a new card service
func NewCardService(cardRepo repository.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// AddCard creates a new card in the New stage and saves it
func (s *CardService) AddCard(userID int64, text, meaning, phonetic string) (domain.Card, error) {
	text = strings.TrimSpace(text)
	meaning = strings.TrimSpace(meaning)

	if text == "" || meaning == "" {
		return domain.Card{}, fmt.Errorf("word and meaning cannot be empty")
	}

	card := domain.Card{
		ID:         uuid.NewString(),
		UserID:     userID,
		Text:       text,
		Meaning:    meaning,
		Phonetic:   strings.TrimSpace(phonetic),
		Status:     domain.StatusNew,
		EaseFactor: scheduler.InitialEaseFactor,
		CreatedAt:  time.Now(),
	}

	if err := s.cardRepo.SaveCard(card); err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// ImportText parses a block of text with one word per line and saves all
// resulting cards in one batch. Accepted line formats:
//
//	word<TAB>meaning
//	word - meaning
//	word | meaning
//
// Returns the number of imported cards. Lines that don't parse are
// skipped; an input with no parsable line is an error.
func (s *CardService) ImportText(userID int64, text string) (int, error) {
	var cards []domain.Card

	for _, line := range strings.Split(text, "\n") {
		word, meaning, ok := splitImportLine(line)
		if !ok {
			continue
		}
		cards = append(cards, domain.Card{
			ID:         uuid.NewString(),
			UserID:     userID,
			Text:       word,
			Meaning:    meaning,
			Status:     domain.StatusNew,
			EaseFactor: scheduler.InitialEaseFactor,
			CreatedAt:  time.Now(),
		})
	}

	if len(cards) == 0 {
		return 0, fmt.Errorf("no valid word lines found")
	}

	if err := s.cardRepo.SaveCards(cards); err != nil {
		return 0, err
	}
	return len(cards), nil
}

func splitImportLine(line string) (word, meaning string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	for _, sep := range []string{"\t", " - ", " | ", "|"} {
		if idx := strings.Index(line, sep); idx > 0 {
			word = strings.TrimSpace(line[:idx])
			meaning = strings.TrimSpace(line[idx+len(sep):])
			if word != "" && meaning != "" {
				return word, meaning, true
			}
			return "", "", false
		}
	}
	return "", "", false
}

// ListCards returns one page of the user's cards plus the total page count
func (s *CardService) ListCards(userID int64, page int) ([]domain.Card, int, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * pageSize
	cards, err := s.cardRepo.ListCards(userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.cardRepo.CountCards(userID)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return cards, totalPages, nil
}

// SearchCards returns one page of cards matching the query
func (s *CardService) SearchCards(userID int64, query string, page int) ([]domain.Card, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	if page < 1 {
		page = 1
	}

	return s.cardRepo.SearchCards(userID, query, pageSize, (page-1)*pageSize)
}

// GetCard returns one card by id, or nil if it doesn't exist
func (s *CardService) GetCard(userID int64, id string) (*domain.Card, error) {
	return s.cardRepo.GetCard(userID, id)
}

// DeleteCard removes a card permanently
func (s *CardService) DeleteCard(userID int64, id string) error {
	return s.cardRepo.DeleteCard(userID, id)
}
