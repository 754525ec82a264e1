package handler

import (
	"sync"

	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot           *tele.Bot
	authService   *service.AuthService
	cardService   *service.CardService
	reviewService *service.ReviewService
	statsService  *service.StatsService
	logger        *zap.Logger

	// User states (in-memory state machine). Study sessions live here
	// too: they belong to the interaction flow, not to storage.
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-user locks so two grade callbacks can't race on one session
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	cardService *service.CardService,
	reviewService *service.ReviewService,
	statsService *service.StatsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		authService:   authService,
		cardService:   cardService,
		reviewService: reviewService,
		statsService:  statsService,
		logger:        logger,
		states:        make(map[int64]*domain.StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/study", h.handleStudy)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnStudy, h.handleStudy)
	h.bot.Handle(&btnWordList, h.handleWordList)
	h.bot.Handle(&btnAddWord, h.handleAddWord)
	h.bot.Handle(&btnSearch, h.handleSearch)
	h.bot.Handle(&btnStats, h.handleStats)
	h.bot.Handle(&btnModeMenu, h.handleModeMenu)
	h.bot.Handle(&btnReveal, h.handleReveal)
	h.bot.Handle(&btnForgot, h.gradeHandler(domain.OutcomeForgot))
	h.bot.Handle(&btnVague, h.gradeHandler(domain.OutcomeVague))
	h.bot.Handle(&btnKnow, h.gradeHandler(domain.OutcomeKnow))
	h.bot.Handle(&btnStopStudy, h.handleStart)
	h.bot.Handle(&btnCancel, h.handleCancel)
	h.bot.Handle(&btnBack, h.handleStart)
	h.bot.Handle(&btnBackToList, h.handleWordList)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state and drops any active session
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// userLock returns the per-user mutex, creating it on first use
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

// Inline keyboard buttons
var (
	btnStudy = tele.Btn{
		Unique: "study",
		Text:   "📖 开始学习",
	}
	btnWordList = tele.Btn{
		Unique: "word_list",
		Text:   "📋 单词列表",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ 添加单词",
	}
	btnSearch = tele.Btn{
		Unique: "search",
		Text:   "🔍 搜索单词",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 学习统计",
	}
	btnModeMenu = tele.Btn{
		Unique: "mode_menu",
		Text:   "🔁 学习模式",
	}
	btnReveal = tele.Btn{
		Unique: "reveal",
		Text:   "👀 显示答案",
	}
	btnForgot = tele.Btn{
		Unique: "grade_forgot",
		Text:   "😵 忘记",
	}
	btnVague = tele.Btn{
		Unique: "grade_vague",
		Text:   "🤔 模糊",
	}
	btnKnow = tele.Btn{
		Unique: "grade_know",
		Text:   "😎 认识",
	}
	btnStopStudy = tele.Btn{
		Unique: "stop_study",
		Text:   "⏹ 结束学习",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ 取消",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "🏠 主菜单",
	}
	btnBackToList = tele.Btn{
		Unique: "back_to_list",
		Text:   "◀️ 返回列表",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 主菜单",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnStudy),
		menu.Row(btnWordList, btnSearch),
		menu.Row(btnAddWord, btnStats),
		menu.Row(btnModeMenu),
	)
	return menu
}

// statusLabel maps a learning stage to its display label
func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusNew:
		return "未学习"
	case domain.StatusLearning:
		return "学习中"
	case domain.StatusReviewing:
		return "复习中"
	case domain.StatusMastered:
		return "已掌握"
	}
	return string(s)
}

// modeLabel maps a study mode to its display label
func modeLabel(m domain.StudyMode) string {
	switch m {
	case domain.ModeCard:
		return "单词卡片"
	case domain.ModeEnZh:
		return "英译中测验"
	case domain.ModeZhEn:
		return "中译英测验"
	case domain.ModeAudio:
		return "听音回忆"
	}
	return string(m)
}
