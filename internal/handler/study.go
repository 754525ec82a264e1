package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStudy starts a study session over the user's due cards
func (h *Handler) handleStudy(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := h.reviewService.StartSession(userID, time.Now())
	if err != nil {
		h.logger.Error("Failed to start session", zap.Error(err))
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "加载失败"})
		}
		return c.Send("加载失败，请稍后再试。")
	}

	if sess.Done() {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{
				Text:      "当前没有需要复习的单词 🎉",
				ShowAlert: true,
			})
		}
		return c.Send("当前没有需要复习的单词 🎉", mainMenuMarkup())
	}

	h.SetState(userID, &domain.StateData{
		State:   domain.StateStudying,
		Session: &sess,
	})

	return h.showCurrentCard(c, userID)
}

// showCurrentCard renders the prompt for the card at the session cursor,
// or the completion view when the queue is exhausted
func (h *Handler) showCurrentCard(c tele.Context, userID int64) error {
	state := h.GetState(userID)
	if state.Session == nil {
		return h.handleStart(c)
	}
	sess := *state.Session

	if sess.Done() {
		h.ResetState(userID)
		text := fmt.Sprintf("🎉 本轮学习完成！共复习 %d 个单词", sess.Total())
		return h.editOrSend(c, userID, text, mainMenuMarkup())
	}

	card, err := h.reviewService.CurrentCard(userID, sess)
	if err != nil {
		h.logger.Error("Failed to load current card", zap.Error(err))
		h.ResetState(userID)
		return c.Send("出错了，学习已中断。", mainMenuMarkup())
	}
	if card == nil {
		h.ResetState(userID)
		text := fmt.Sprintf("🎉 本轮学习完成！共复习 %d 个单词", sess.Total())
		return h.editOrSend(c, userID, text, mainMenuMarkup())
	}

	mode, err := h.authService.GetStudyMode(userID)
	if err != nil {
		h.logger.Warn("Failed to load study mode, using card mode", zap.Error(err))
		mode = domain.ModeCard
	}

	progress := fmt.Sprintf("第 %d/%d 个", sess.Cursor+1, sess.Total())
	text, needsReveal := renderPrompt(card, mode, state.Revealed)
	text = progress + "\n\n" + text

	markup := &tele.ReplyMarkup{}
	if needsReveal {
		markup.Inline(
			markup.Row(btnReveal),
			markup.Row(btnStopStudy),
		)
	} else {
		markup.Inline(
			markup.Row(btnForgot, btnVague, btnKnow),
			markup.Row(btnStopStudy),
		)
	}

	return h.editOrSend(c, userID, text, markup)
}

// renderPrompt builds the study message for a card. needsReveal is true
// when the answer is still hidden and a reveal button should be shown.
func renderPrompt(card *domain.Card, mode domain.StudyMode, revealed bool) (string, bool) {
	full := fmt.Sprintf("📝 %s", card.Text)
	if card.Phonetic != "" {
		full += fmt.Sprintf("\n🔈 %s", card.Phonetic)
	}
	full += fmt.Sprintf("\n🔄 %s", card.Meaning)

	if mode == domain.ModeCard || revealed {
		return full, false
	}

	switch mode {
	case domain.ModeEnZh:
		prompt := fmt.Sprintf("📝 %s", card.Text)
		if card.Phonetic != "" {
			prompt += fmt.Sprintf("\n🔈 %s", card.Phonetic)
		}
		return prompt + "\n\n还记得它的意思吗？", true
	case domain.ModeZhEn:
		return fmt.Sprintf("🔄 %s\n\n还记得对应的单词吗？", card.Meaning), true
	case domain.ModeAudio:
		if card.Phonetic != "" {
			return fmt.Sprintf("🔈 %s\n\n只凭读音，还记得这个单词吗？", card.Phonetic), true
		}
		// No phonetic recorded, fall back to the written prompt
		return fmt.Sprintf("📝 %s\n\n还记得它的意思吗？", card.Text), true
	}

	return full, false
}

// handleReveal shows the hidden answer for the current card
func (h *Handler) handleReveal(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	state := h.GetState(userID)
	if state.State != domain.StateStudying || state.Session == nil {
		return c.Respond(&tele.CallbackResponse{Text: "学习已结束"})
	}

	h.SetState(userID, &domain.StateData{
		State:    domain.StateStudying,
		Session:  state.Session,
		Revealed: true,
	})

	return h.showCurrentCard(c, userID)
}

// gradeHandler returns the callback handler for one grade button
func (h *Handler) gradeHandler(outcome domain.Outcome) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.handleGrade(c, outcome)
	}
}

// handleGrade applies a grade to the current card and moves on
func (h *Handler) handleGrade(c tele.Context, outcome domain.Outcome) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	state := h.GetState(userID)
	if state.State != domain.StateStudying || state.Session == nil {
		return c.Respond(&tele.CallbackResponse{Text: "学习已结束"})
	}

	_, next, err := h.reviewService.GradeCurrent(userID, *state.Session, outcome, time.Now())
	if errors.Is(err, service.ErrSessionComplete) {
		// Stale grade button after the last card
		h.ResetState(userID)
		return h.editOrSend(c, userID, "🎉 本轮学习完成！", mainMenuMarkup())
	}
	if err != nil {
		h.logger.Error("Failed to grade card",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Respond(&tele.CallbackResponse{Text: "保存失败，请重试"})
	}

	h.SetState(userID, &domain.StateData{
		State:   domain.StateStudying,
		Session: &next,
	})

	return h.showCurrentCard(c, userID)
}
