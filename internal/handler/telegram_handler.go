package handler

import (
	"crypto/subtle"
	"net/http"

	"storebot/internal/transport/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// setWebhookで渡したsecret_tokenが入ってくるヘッダ
const HeaderTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"

// telegram.Runnerが満たす
type UpdateEnqueuer interface {
	Enqueue(u tgbotapi.Update)
}

// webhookの受け口
type TelegramHandler struct {
	updates UpdateEnqueuer
	secret  string
	logger  *zap.Logger
}

// DI
func NewTelegramHandler(updates UpdateEnqueuer, secret string, logger *zap.Logger) *TelegramHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramHandler{updates: updates, secret: secret, logger: logger}
}

func (h *TelegramHandler) RegisterRoutes(e *echo.Echo) {
	e.POST(telegram.WebhookPath, h.receive)
}

// 受け付けたら即200を返す。処理はRunner側で非同期。
func (h *TelegramHandler) receive(c echo.Context) error {
	if h.secret != "" {
		got := c.Request().Header.Get(HeaderTelegramSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		}
	}

	var u tgbotapi.Update
	if err := c.Bind(&u); err != nil {
		h.logger.Warn("invalid webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	h.updates.Enqueue(u)
	return c.NoContent(http.StatusOK)
}
