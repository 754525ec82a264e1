package service

import (
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/repository"
	"github.com/legendatm/lingoflow/internal/scheduler"

	"go.uber.org/zap"
)

// Overview summarises a user's collection for the stats view.
type Overview struct {
	Total     int
	New       int
	Learning  int
	Reviewing int
	Mastered  int
	DueNow    int
}

// StatsService builds study statistics and the daily reminder digest
type StatsService struct {
	cardRepo repository.CardRepository
	params   *scheduler.Params
	logger   *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(cardRepo repository.CardRepository, params *scheduler.Params, logger *zap.Logger) *StatsService {
	return &StatsService{
		cardRepo: cardRepo,
		params:   params,
		logger:   logger,
	}
}

// Overview returns counts per learning stage plus the current due count
func (s *StatsService) Overview(userID int64, now time.Time) (Overview, error) {
	counts, err := s.cardRepo.CountByStatus(userID)
	if err != nil {
		return Overview{}, err
	}

	cards, err := s.cardRepo.GetAllCards(userID)
	if err != nil {
		return Overview{}, err
	}

	o := Overview{
		New:       counts[domain.StatusNew],
		Learning:  counts[domain.StatusLearning],
		Reviewing: counts[domain.StatusReviewing],
		Mastered:  counts[domain.StatusMastered],
		DueNow:    len(s.params.SelectDue(cards, now)),
	}
	o.Total = o.New + o.Learning + o.Reviewing + o.Mastered

	return o, nil
}

// DueDigest returns the per-user due counts used by the daily reminder job
func (s *StatsService) DueDigest(now time.Time) ([]domain.UserDueCount, error) {
	s.logger.Info("Building due digest")

	counts, err := s.cardRepo.DueCountsByUser(now)
	if err != nil {
		s.logger.Error("Failed to build due digest", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Due digest ready", zap.Int("users_with_due", len(counts)))
	return counts, nil
}
