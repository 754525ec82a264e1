package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/legendatm/lingoflow/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it was already edited by another callback
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// editOrSend edits the callback message in place, falling back to a new
// message; plain commands always get a new message
func (h *Handler) editOrSend(c tele.Context, userID int64, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Handle specific button callbacks by Unique first
	switch callback.Unique {
	case "study":
		return h.handleStudy(c)
	case "word_list", "back_to_list":
		return h.handleWordList(c)
	case "add_word":
		return h.handleAddWord(c)
	case "search":
		return h.handleSearch(c)
	case "stats":
		return h.handleStats(c)
	case "mode_menu":
		return h.handleModeMenu(c)
	case "reveal":
		return h.handleReveal(c)
	case "grade_forgot":
		return h.handleGrade(c, domain.OutcomeForgot)
	case "grade_vague":
		return h.handleGrade(c, domain.OutcomeVague)
	case "grade_know":
		return h.handleGrade(c, domain.OutcomeKnow)
	case "cancel":
		return h.handleCancel(c)
	case "stop_study", "back", "main_menu":
		return h.handleStart(c)
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, "page_"):
		return h.handlePagination(c, data)
	case strings.HasPrefix(data, "card_"):
		return h.handleCardDetail(c, data)
	case strings.HasPrefix(data, "del_"):
		return h.handleDelete(c, data)
	case strings.HasPrefix(data, "mode_"):
		return h.handleSetMode(c, data)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleWordList shows the first page of the word list
func (h *Handler) handleWordList(c tele.Context) error {
	return h.renderWordList(c, 1)
}

// handlePagination handles page navigation in the word list
func (h *Handler) handlePagination(c tele.Context, data string) error {
	pageStr := strings.TrimPrefix(strings.TrimSpace(data), "page_")
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "无效的页码"})
	}
	return h.renderWordList(c, page)
}

// renderWordList builds one page of the word list with status labels
func (h *Handler) renderWordList(c tele.Context, page int) error {
	userID := c.Sender().ID

	cards, totalPages, err := h.cardService.ListCards(userID, page)
	if err != nil {
		h.logger.Error("Failed to list cards", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "加载失败"})
	}

	if len(cards) == 0 {
		return c.Respond(&tele.CallbackResponse{
			Text:      "你还没有保存任何单词",
			ShowAlert: true,
		})
	}

	text := fmt.Sprintf("📋 单词列表（第 %d/%d 页）：", page, totalPages)
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for _, card := range cards {
		btnText := fmt.Sprintf("%s — %s ·%s", card.Text, card.Meaning, statusLabel(card.Status))
		rows = append(rows, markup.Row(markup.Data(btnText, "card_"+card.ID)))
	}

	// Pagination buttons
	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("page_%d", page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("page_%d", page+1)))
		}
		if len(navRow) > 0 {
			rows = append(rows, navRow)
		}
	}

	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)

	return h.editOrSend(c, userID, text, markup)
}

// handleCardDetail shows one card with its scheduling state
func (h *Handler) handleCardDetail(c tele.Context, data string) error {
	userID := c.Sender().ID
	cardID := strings.TrimPrefix(strings.TrimSpace(data), "card_")

	card, err := h.cardService.GetCard(userID, cardID)
	if err != nil {
		h.logger.Error("Failed to load card", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "加载失败"})
	}
	if card == nil {
		return c.Respond(&tele.CallbackResponse{Text: "单词不存在"})
	}

	text := fmt.Sprintf("📝 %s", card.Text)
	if card.Phonetic != "" {
		text += fmt.Sprintf("\n🔈 %s", card.Phonetic)
	}
	text += fmt.Sprintf("\n🔄 %s", card.Meaning)
	text += fmt.Sprintf("\n\n状态：%s", statusLabel(card.Status))
	text += fmt.Sprintf("\n连续答对：%d 次", card.ConsecutiveCorrect)
	if card.DueAt != nil {
		text += fmt.Sprintf("\n下次复习：%s（间隔 %d 天）",
			card.DueAt.Format("2006-01-02"), card.IntervalDays)
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🗑 删除", "del_"+card.ID)),
		markup.Row(btnBackToList, btnMainMenu),
	)

	return h.editOrSend(c, userID, text, markup)
}

// handleDelete removes a card and returns to the list
func (h *Handler) handleDelete(c tele.Context, data string) error {
	userID := c.Sender().ID
	cardID := strings.TrimPrefix(strings.TrimSpace(data), "del_")

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		h.logger.Error("Failed to delete card", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "删除失败"})
	}

	h.logger.Info("Card deleted",
		zap.Int64("user_id", userID),
		zap.String("card_id", cardID),
	)

	if err := c.Respond(&tele.CallbackResponse{Text: "已删除"}); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	return h.renderWordList(c, 1)
}

// handleStats shows the user's collection overview
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	o, err := h.statsService.Overview(userID, time.Now())
	if err != nil {
		h.logger.Error("Failed to build overview", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "加载失败"})
	}

	text := fmt.Sprintf(
		"📊 学习统计\n\n单词总数：%d\n未学习：%d\n学习中：%d\n复习中：%d\n已掌握：%d\n\n今日待复习：%d",
		o.Total, o.New, o.Learning, o.Reviewing, o.Mastered, o.DueNow,
	)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnBack))

	return h.editOrSend(c, userID, text, markup)
}

// handleModeMenu shows the study-mode picker
func (h *Handler) handleModeMenu(c tele.Context) error {
	userID := c.Sender().ID

	current, err := h.authService.GetStudyMode(userID)
	if err != nil {
		h.logger.Warn("Failed to load study mode", zap.Error(err))
		current = domain.ModeCard
	}

	text := fmt.Sprintf("🔁 学习模式\n\n当前：%s\n\n请选择：", modeLabel(current))

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data(modeLabel(domain.ModeCard), "mode_card")),
		markup.Row(markup.Data(modeLabel(domain.ModeEnZh), "mode_en_zh")),
		markup.Row(markup.Data(modeLabel(domain.ModeZhEn), "mode_zh_en")),
		markup.Row(markup.Data(modeLabel(domain.ModeAudio), "mode_audio")),
		markup.Row(btnBack),
	)

	return h.editOrSend(c, userID, text, markup)
}

// handleSetMode stores the chosen study mode
func (h *Handler) handleSetMode(c tele.Context, data string) error {
	userID := c.Sender().ID
	mode := domain.StudyMode(strings.TrimPrefix(strings.TrimSpace(data), "mode_"))

	if !domain.ValidMode(mode) {
		return c.Respond(&tele.CallbackResponse{Text: "无效的模式"})
	}

	if err := h.authService.SetStudyMode(userID, mode); err != nil {
		h.logger.Error("Failed to set study mode", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "保存失败"})
	}

	h.logger.Info("Study mode changed",
		zap.Int64("user_id", userID),
		zap.String("mode", string(mode)),
	)

	text := fmt.Sprintf("✅ 已切换为「%s」\n\n🏠 主菜单\n\n请选择操作：", modeLabel(mode))
	return h.editOrSend(c, userID, text, mainMenuMarkup())
}

// handleAddWord starts the add-word flow
func (h *Handler) handleAddWord(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingWord})

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	return h.editOrSend(c, userID, "➕ 请发送要添加的单词\n\n（多行消息会按「单词<TAB>释义」批量导入）", cancelMarkup)
}

// handleSearch starts the search flow
func (h *Handler) handleSearch(c tele.Context) error {
	userID := c.Sender().ID

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingSearch})

	cancelMarkup := &tele.ReplyMarkup{}
	cancelMarkup.Inline(cancelMarkup.Row(btnCancel))

	return h.editOrSend(c, userID, "🔍 请输入要搜索的单词或释义", cancelMarkup)
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	userID := c.Sender().ID

	h.ResetState(userID)

	return h.editOrSend(c, userID, "🏠 主菜单\n\n请选择操作：", mainMenuMarkup())
}
