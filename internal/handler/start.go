package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send("出错了，请稍后再试。")
	}

	// Check if authorized
	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send("出错了，请稍后再试。")
	}

	if !authorized {
		// Request password
		h.ResetState(userID)
		return c.Send("你好！请输入访问密码：")
	}

	// Show main menu
	h.ResetState(userID)

	if c.Callback() != nil {
		if err := c.Edit("🏠 主菜单\n\n请选择操作：", mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send("🏠 主菜单\n\n请选择操作：", mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send("🏠 主菜单\n\n请选择操作：", mainMenuMarkup())
}
