package handler

import (
	"fmt"
	"strings"

	"github.com/legendatm/lingoflow/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Ensure user exists
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	// Check authorization first
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("出错了，请稍后再试。")
	}

	// If not authorized, check password
	if !authorized {
		if h.authService.CheckPassword(text) {
			if err := h.authService.AuthorizeUser(userID); err != nil {
				h.logger.Error("Failed to authorize user", zap.Error(err))
				return c.Send("出错了，请稍后再试。")
			}

			h.logger.Info("User authorized", zap.Int64("user_id", userID))
			h.ResetState(userID)
			return c.Send("✅ 验证成功！\n\n🏠 主菜单\n\n请选择操作：", mainMenuMarkup())
		}

		// Wrong password
		return c.Send("密码不对，再试一次")
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingSearch:
		return h.runSearch(c, userID, text)

	case domain.StateWaitingWord:
		// A multi-line message here is a bulk import
		if strings.Contains(text, "\n") {
			h.ResetState(userID)
			return h.runImport(c, userID, text)
		}

		// User sent a word, now wait for its meaning
		cancelMarkup := &tele.ReplyMarkup{}
		cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingMeaning,
			CurrentWord: text,
		})

		return c.Send("请输入释义（可选注音：释义 | 音标）", cancelMarkup)

	case domain.StateWaitingMeaning:
		return h.saveNewWord(c, userID, state.CurrentWord, text)

	case domain.StateStudying:
		return c.Send("学习进行中，请使用下方按钮操作")

	default:
		// Idle: a multi-line message is a bulk import, a single line
		// starts the add-word flow
		if strings.Contains(text, "\n") {
			return h.runImport(c, userID, text)
		}

		cancelMarkup := &tele.ReplyMarkup{}
		cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingMeaning,
			CurrentWord: text,
		})

		return c.Send("请输入释义（可选注音：释义 | 音标）", cancelMarkup)
	}
}

// saveNewWord stores the word captured in the add flow
func (h *Handler) saveNewWord(c tele.Context, userID int64, word, meaningText string) error {
	meaning := meaningText
	phonetic := ""
	if idx := strings.Index(meaningText, "|"); idx > 0 {
		meaning = strings.TrimSpace(meaningText[:idx])
		phonetic = strings.TrimSpace(meaningText[idx+1:])
	}

	card, err := h.cardService.AddCard(userID, word, meaning, phonetic)
	if err != nil {
		h.logger.Error("Failed to save card",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send("保存失败，请再试一次。")
	}

	h.logger.Info("Card saved",
		zap.Int64("user_id", userID),
		zap.String("card_id", card.ID),
		zap.String("word", card.Text),
	)

	// Reset to waiting for next word
	h.SetState(userID, &domain.StateData{State: domain.StateWaitingWord})

	return c.Send("✅ 已保存！\n\n可以继续发送下一个单词，或回到 /start")
}

// runImport bulk-imports a multi-line word list
func (h *Handler) runImport(c tele.Context, userID int64, text string) error {
	count, err := h.cardService.ImportText(userID, text)
	if err != nil {
		h.logger.Warn("Import failed",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return c.Send("导入失败：每行格式应为「单词<TAB>释义」或「单词 - 释义」")
	}

	h.logger.Info("Words imported",
		zap.Int64("user_id", userID),
		zap.Int("count", count),
	)

	return c.Send(fmt.Sprintf("✅ 已导入 %d 个单词", count), mainMenuMarkup())
}

// runSearch executes a pending search query
func (h *Handler) runSearch(c tele.Context, userID int64, query string) error {
	cards, err := h.cardService.SearchCards(userID, query, 1)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err))
		return c.Send("搜索失败，请再试一次。")
	}

	h.ResetState(userID)

	if len(cards) == 0 {
		return c.Send(fmt.Sprintf("没有找到与「%s」匹配的单词", query), mainMenuMarkup())
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, card := range cards {
		btnText := fmt.Sprintf("%s — %s", card.Text, card.Meaning)
		rows = append(rows, markup.Row(markup.Data(btnText, "card_"+card.ID)))
	}
	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)

	return c.Send(fmt.Sprintf("🔍 搜索「%s」的结果：", query), markup)
}
