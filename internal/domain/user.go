package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	Mode       StudyMode
	CreatedAt  time.Time
}

// StudyMode selects what a study prompt shows before the reveal.
// It is a presentation preference only; scheduling ignores it.
type StudyMode string

const (
	ModeCard  StudyMode = "card"  // word + meaning + phonetic at once
	ModeEnZh  StudyMode = "en_zh" // show English, recall Chinese
	ModeZhEn  StudyMode = "zh_en" // show Chinese, recall English
	ModeAudio StudyMode = "audio" // show phonetic only, recall both
)

// ValidMode reports whether m is a known study mode.
func ValidMode(m StudyMode) bool {
	switch m {
	case ModeCard, ModeEnZh, ModeZhEn, ModeAudio:
		return true
	}
	return false
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle           UserState = "idle"
	StateWaitingWord    UserState = "waiting_word"
	StateWaitingMeaning UserState = "waiting_meaning"
	StateWaitingSearch  UserState = "waiting_search"
	StateStudying       UserState = "studying"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State       UserState
	CurrentWord string   // pending word while waiting for its meaning
	Session     *Session // active study pass, nil outside StateStudying
	Revealed    bool     // current card's answer shown
}
