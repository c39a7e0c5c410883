package telegram

import (
	"context"

	"storebot/internal/bot"
	"storebot/internal/infra/image"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPIのうち送信に使う部分
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// 1つのチャットに返信するbot.Replier
type chatReplier struct {
	api    Sender
	chatID int64
}

func newChatReplier(api Sender, chatID int64) *chatReplier {
	return &chatReplier{api: api, chatID: chatID}
}

func (r *chatReplier) SendText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.api.Send(tgbotapi.NewMessage(r.chatID, text))
	return err
}

func (r *chatReplier) SendButtons(ctx context.Context, text string, kb bot.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(r.chatID, text)
	if markup, ok := toMarkup(kb); ok {
		msg.ReplyMarkup = markup
	}
	_, err := r.api.Send(msg)
	return err
}

func (r *chatReplier) SendPhoto(ctx context.Context, photo image.Resolved, caption string, kb bot.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var file tgbotapi.RequestFileData
	if photo.URL != "" {
		file = tgbotapi.FileURL(photo.URL)
	} else {
		file = tgbotapi.FileBytes{Name: photo.Name, Bytes: photo.Bytes}
	}

	msg := tgbotapi.NewPhoto(r.chatID, file)
	msg.Caption = caption
	if markup, ok := toMarkup(kb); ok {
		msg.ReplyMarkup = markup
	}
	_, err := r.api.Send(msg)
	return err
}

func toMarkup(kb bot.Keyboard) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(kb) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		rows = append(rows, buttons)
	}
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
