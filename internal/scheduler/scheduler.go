// Package scheduler implements the spaced-repetition review algorithm.
//
// All functions are pure: they take a card and a clock reading and return a
// new card value. Callers persist the result; nothing here touches storage.
package scheduler

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
)

// ErrInvalidOutcome is returned when Grade is passed an outcome outside
// the forgot/vague/know set. Check with errors.Is.
var ErrInvalidOutcome = errors.New("scheduler: invalid review outcome")

// Default settings for new cards
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Params holds the tunables of the scheduling algorithm.
type Params struct {
	EaseBonus       float64 // added to ease on a successful review
	EasePenalty     float64 // subtracted from ease on forgot
	VagueGrowth     float64 // interval multiplier for a vague review
	MasteryStreak   int     // consecutive correct grades before mastered
	MaxIntervalDays int     // cap on any scheduled interval
}

// DefaultParams returns the standard parameter set.
func DefaultParams() *Params {
	return &Params{
		EaseBonus:       0.1,
		EasePenalty:     0.2,
		VagueGrowth:     1.2,
		MasteryStreak:   3,
		MaxIntervalDays: 365,
	}
}

// Grade applies a review outcome to a card and returns the updated card.
// The input card is not modified.
//
// Forgot resets the card: it regresses to Learning, becomes immediately due
// again, and loses some ease (never below the 1.3 floor). Vague grows the
// interval slightly without counting toward mastery. Know grows the interval
// by the ease factor and promotes the card to Mastered once the correct
// streak reaches MasteryStreak.
func (p *Params) Grade(card domain.Card, outcome domain.Outcome, now time.Time) (domain.Card, error) {
	next := card

	switch outcome {
	case domain.OutcomeForgot:
		next.Status = domain.StatusLearning
		next.ConsecutiveCorrect = 0
		next.EaseFactor = math.Max(MinEaseFactor, card.EaseFactor-p.EasePenalty)
		next.IntervalDays = 0
		due := now
		next.DueAt = &due

	case domain.OutcomeVague:
		next.ConsecutiveCorrect = 0
		grown := int(math.Round(float64(card.IntervalDays) * p.VagueGrowth))
		if grown < 1 {
			grown = 1
		}
		next.IntervalDays = p.clampInterval(grown)
		if card.Status == domain.StatusNew || card.Status == domain.StatusLearning {
			next.Status = domain.StatusReviewing
		}
		due := now.AddDate(0, 0, next.IntervalDays)
		next.DueAt = &due

	case domain.OutcomeKnow:
		next.ConsecutiveCorrect = card.ConsecutiveCorrect + 1
		switch card.Status {
		case domain.StatusNew, domain.StatusLearning:
			next.IntervalDays = 1
		default:
			next.IntervalDays = int(math.Round(float64(card.IntervalDays) * card.EaseFactor))
		}
		next.IntervalDays = p.clampInterval(next.IntervalDays)
		next.EaseFactor = card.EaseFactor + p.EaseBonus
		if next.ConsecutiveCorrect >= p.MasteryStreak {
			next.Status = domain.StatusMastered
		} else {
			next.Status = domain.StatusReviewing
		}
		due := now.AddDate(0, 0, next.IntervalDays)
		next.DueAt = &due

	default:
		return domain.Card{}, ErrInvalidOutcome
	}

	reviewed := now
	next.LastReviewedAt = &reviewed

	return next, nil
}

// SelectDue returns the cards eligible for review at the given time:
// every New card, plus every card whose due time has arrived.
//
// Ordering: already-due reviews first, ascending by due time, then New cards.
// Ties break by ID ascending so the result is deterministic. The input slice
// is not modified.
func (p *Params) SelectDue(cards []domain.Card, now time.Time) []domain.Card {
	var due []domain.Card
	for _, c := range cards {
		if c.Due(now) {
			due = append(due, c)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		aNew := a.Status == domain.StatusNew
		bNew := b.Status == domain.StatusNew
		if aNew != bNew {
			return bNew // reviews before new cards
		}
		if !aNew && !a.DueAt.Equal(*b.DueAt) {
			return a.DueAt.Before(*b.DueAt)
		}
		return a.ID < b.ID
	})

	return due
}

func (p *Params) clampInterval(days int) int {
	if days > p.MaxIntervalDays {
		return p.MaxIntervalDays
	}
	return days
}
