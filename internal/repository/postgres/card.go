package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
)

// CardRepo implements repository.CardRepository
type CardRepo struct {
	db *sql.DB
}

// NewCardRepo creates a new card repository
func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

const cardColumns = `id, user_id, text, meaning, phonetic, status, interval_days, ease_factor, due_at, last_reviewed_at, consecutive_correct, created_at`

// SaveCard inserts a new card
func (r *CardRepo) SaveCard(card domain.Card) error {
	query := `
		INSERT INTO cards (id, user_id, text, meaning, phonetic, status, interval_days, ease_factor, due_at, last_reviewed_at, consecutive_correct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(query,
		card.ID, card.UserID, card.Text, card.Meaning, card.Phonetic,
		string(card.Status), card.IntervalDays, card.EaseFactor,
		card.DueAt, card.LastReviewedAt, card.ConsecutiveCorrect,
	)
	return err
}

// SaveCards inserts a batch of cards in one transaction
func (r *CardRepo) SaveCards(cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cards (id, user_id, text, meaning, phonetic, status, interval_days, ease_factor, due_at, last_reviewed_at, consecutive_correct)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, card := range cards {
		if _, err := stmt.Exec(
			card.ID, card.UserID, card.Text, card.Meaning, card.Phonetic,
			string(card.Status), card.IntervalDays, card.EaseFactor,
			card.DueAt, card.LastReviewedAt, card.ConsecutiveCorrect,
		); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", card.ID, err)
		}
	}

	return tx.Commit()
}

// GetCard returns one card by id, or nil if it doesn't exist
func (r *CardRepo) GetCard(userID int64, id string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 AND id = $2`

	card, err := scanCard(r.db.QueryRow(query, userID, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetAllCards returns every card owned by the user
func (r *CardRepo) GetAllCards(userID int64) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// UpdateScheduling writes back the scheduling fields of a graded card.
// Display content is deliberately not touched.
func (r *CardRepo) UpdateScheduling(card domain.Card) error {
	query := `
		UPDATE cards
		SET status = $3, interval_days = $4, ease_factor = $5, due_at = $6, last_reviewed_at = $7, consecutive_correct = $8
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.Exec(query,
		card.UserID, card.ID,
		string(card.Status), card.IntervalDays, card.EaseFactor,
		card.DueAt, card.LastReviewedAt, card.ConsecutiveCorrect,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("card %s not found", card.ID)
	}
	return nil
}

// DeleteCard removes a card permanently
func (r *CardRepo) DeleteCard(userID int64, id string) error {
	query := `DELETE FROM cards WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(query, userID, id)
	return err
}

// ListCards returns a page of cards, newest first
func (r *CardRepo) ListCards(userID int64, limit, offset int) ([]domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// SearchCards returns a page of cards matching the query against the word
// or its meaning, case-insensitively
func (r *CardRepo) SearchCards(userID int64, search string, limit, offset int) ([]domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND (text ILIKE $2 OR meaning ILIKE $2)
		ORDER BY text, id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(query, userID, "%"+search+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCards(rows)
}

// CountCards returns the total number of cards for the user
func (r *CardRepo) CountCards(userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM cards WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

// CountByStatus returns card counts grouped by learning stage
func (r *CardRepo) CountByStatus(userID int64) (map[domain.Status]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM cards
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.Status(status)] = count
	}

	return counts, rows.Err()
}

// DueCountsByUser returns, for every user with at least one due card,
// how many cards are due at the given time. Used by the reminder digest.
func (r *CardRepo) DueCountsByUser(now time.Time) ([]domain.UserDueCount, error) {
	query := `
		SELECT user_id, COUNT(*)
		FROM cards
		WHERE status = 'new' OR due_at <= $1
		GROUP BY user_id
		ORDER BY user_id
	`

	rows, err := r.db.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.UserDueCount
	for rows.Next() {
		var c domain.UserDueCount
		if err := rows.Scan(&c.UserID, &c.DueCards); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	var status string
	var dueAt, lastReviewedAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.UserID, &c.Text, &c.Meaning, &c.Phonetic,
		&status, &c.IntervalDays, &c.EaseFactor,
		&dueAt, &lastReviewedAt, &c.ConsecutiveCorrect, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = domain.Status(status)
	if dueAt.Valid {
		c.DueAt = &dueAt.Time
	}
	if lastReviewedAt.Valid {
		c.LastReviewedAt = &lastReviewedAt.Time
	}

	return &c, nil
}

func scanCards(rows *sql.Rows) ([]domain.Card, error) {
	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}
