package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/repository"
	"github.com/legendatm/lingoflow/internal/scheduler"

	"go.uber.org/zap"
)

// ErrSessionComplete is returned when a grade is requested for a session
// whose queue is exhausted. It is an expected condition: callers should
// check CurrentCard first and render a completion view.
var ErrSessionComplete = errors.New("service: study session complete")

// ReviewService drives study sessions: it selects due cards, serves the
// current card, and persists grading results. The service itself is
// stateless; the caller owns the Session value and passes it back in.
type ReviewService struct {
	cardRepo repository.CardRepository
	params   *scheduler.Params
	logger   *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(cardRepo repository.CardRepository, params *scheduler.Params, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		cardRepo: cardRepo,
		params:   params,
		logger:   logger,
	}
}

// StartSession selects the user's due cards and returns a session over
// them. An empty queue is not an error: it means nothing is due.
func (s *ReviewService) StartSession(userID int64, now time.Time) (domain.Session, error) {
	cards, err := s.cardRepo.GetAllCards(userID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load cards: %w", err)
	}

	due := s.params.SelectDue(cards, now)
	ids := make([]string, len(due))
	for i, c := range due {
		ids[i] = c.ID
	}

	s.logger.Info("Study session started",
		zap.Int64("user_id", userID),
		zap.Int("due_cards", len(ids)),
	)

	return domain.NewSession(ids, now), nil
}

// CurrentCard returns the card at the session cursor, or nil when the
// session is complete.
func (s *ReviewService) CurrentCard(userID int64, sess domain.Session) (*domain.Card, error) {
	id, ok := sess.CurrentID()
	if !ok {
		return nil, nil
	}

	card, err := s.cardRepo.GetCard(userID, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("card %s no longer exists", id)
	}
	return card, nil
}

// GradeCurrent grades the card at the cursor, persists the result and
// advances the session. Returns ErrSessionComplete when there is no
// current card.
func (s *ReviewService) GradeCurrent(userID int64, sess domain.Session, outcome domain.Outcome, now time.Time) (domain.Card, domain.Session, error) {
	id, ok := sess.CurrentID()
	if !ok {
		return domain.Card{}, sess, ErrSessionComplete
	}

	card, err := s.cardRepo.GetCard(userID, id)
	if err != nil {
		return domain.Card{}, sess, err
	}
	if card == nil {
		return domain.Card{}, sess, fmt.Errorf("card %s no longer exists", id)
	}

	graded, err := s.params.Grade(*card, outcome, now)
	if err != nil {
		return domain.Card{}, sess, err
	}

	if err := s.cardRepo.UpdateScheduling(graded); err != nil {
		return domain.Card{}, sess, fmt.Errorf("failed to persist grade: %w", err)
	}

	s.logger.Info("Card graded",
		zap.Int64("user_id", userID),
		zap.String("card_id", graded.ID),
		zap.String("outcome", outcome.String()),
		zap.String("status", string(graded.Status)),
		zap.Int("interval_days", graded.IntervalDays),
	)

	return graded, sess.Advance(), nil
}

// DueCount returns how many of the user's cards are due right now.
func (s *ReviewService) DueCount(userID int64, now time.Time) (int, error) {
	cards, err := s.cardRepo.GetAllCards(userID)
	if err != nil {
		return 0, err
	}
	return len(s.params.SelectDue(cards, now)), nil
}
