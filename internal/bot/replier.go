package bot

import (
	"context"

	"storebot/internal/infra/image"
)

// インラインボタン。DataかURLのどちらか。
type Button struct {
	Text string
	Data string
	URL  string
}

// 行ごとのボタン
type Keyboard [][]Button

func Row(buttons ...Button) []Button {
	return buttons
}

func CallbackButton(text string, data string) Button {
	return Button{Text: text, Data: data}
}

func URLButton(text string, url string) Button {
	return Button{Text: text, URL: url}
}

// 出力先。コマンドでもボタンでも同じものを渡す。
type Replier interface {
	SendText(ctx context.Context, text string) error
	SendButtons(ctx context.Context, text string, kb Keyboard) error
	SendPhoto(ctx context.Context, photo image.Resolved, caption string, kb Keyboard) error
}
