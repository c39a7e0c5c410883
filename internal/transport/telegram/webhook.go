package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// webhookの受け口
const WebhookPath = "/telegram/webhook"

// webhookを登録する。secretがあればTelegramはX-Telegram-Bot-Api-Secret-Tokenを付けて送ってくる。
func RegisterWebhook(api *tgbotapi.BotAPI, baseURL string, secret string) error {
	params := tgbotapi.Params{}
	params["url"] = strings.TrimRight(baseURL, "/") + WebhookPath
	params.AddNonEmpty("secret_token", secret)
	params["allowed_updates"] = `["message","callback_query"]`

	if _, err := api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// ポーリングに切り替える前に消す
func DeleteWebhook(api *tgbotapi.BotAPI) error {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}
