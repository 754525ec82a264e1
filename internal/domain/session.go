package domain

import "time"

// Session is one ordered study pass over a set of due cards.
// It is a plain value: operations return a new Session, callers keep the
// latest one. A session lives only as long as the flow that started it.
type Session struct {
	Queue     []string // card IDs, presentation order
	Cursor    int
	StartedAt time.Time
}

// NewSession builds a session over the given card IDs.
func NewSession(cardIDs []string, startedAt time.Time) Session {
	queue := make([]string, len(cardIDs))
	copy(queue, cardIDs)
	return Session{Queue: queue, StartedAt: startedAt}
}

// CurrentID returns the card ID at the cursor, or false when the
// session is complete.
func (s Session) CurrentID() (string, bool) {
	if s.Cursor >= len(s.Queue) {
		return "", false
	}
	return s.Queue[s.Cursor], true
}

// Advance moves the cursor forward one card. Calling it at the end is a
// no-op: the cursor clamps to len(Queue).
func (s Session) Advance() Session {
	if s.Cursor < len(s.Queue) {
		s.Cursor++
	}
	return s
}

// Done reports whether every card in the queue has been presented.
func (s Session) Done() bool {
	return s.Cursor >= len(s.Queue)
}

// Total returns the number of cards selected for this pass.
func (s Session) Total() int {
	return len(s.Queue)
}

// Remaining returns how many cards are left, including the current one.
func (s Session) Remaining() int {
	if s.Done() {
		return 0
	}
	return len(s.Queue) - s.Cursor
}
