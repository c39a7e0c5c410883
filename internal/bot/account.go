package bot

import (
	"context"
	"errors"

	"storebot/internal/domain/model"
	"storebot/internal/usecase"

	"go.uber.org/zap"
)

var stepPrompts = map[model.Step]string{
	model.StepLoginEmail:        msgAskLoginEmail,
	model.StepLoginPassword:     msgAskLoginPassword,
	model.StepRegisterFirstName: msgAskFirstName,
	model.StepRegisterLastName:  msgAskLastName,
	model.StepRegisterEmail:     msgAskEmail,
	model.StepRegisterPassword:  msgAskPassword,
	model.StepRegisterPhone:     msgAskPhone,
}

func (b *Dispatcher) showStartMenu(ctx context.Context, s *model.Session, r Replier) error {
	kb := Keyboard{
		Row(CallbackButton(btnLoginRegister, tokenMenuLogin)),
		Row(CallbackButton(btnCategories, tokenMenuCategories)),
		Row(CallbackButton(btnSearch, tokenMenuSearch)),
		Row(CallbackButton(btnCart, tokenMenuCart)),
		Row(CallbackButton(btnOrders, tokenMenuOrders)),
	}
	return r.SendButtons(ctx, msgWelcome, kb)
}

func (b *Dispatcher) showLoginMenu(ctx context.Context, s *model.Session, r Replier) error {
	if s.Authenticated {
		return r.SendText(ctx, msgAlreadyLoggedIn)
	}
	kb := Keyboard{
		Row(CallbackButton(btnLogin, tokenLogin)),
		Row(CallbackButton(btnRegister, tokenRegister)),
	}
	return r.SendButtons(ctx, msgChoose, kb)
}

func (b *Dispatcher) startLogin(ctx context.Context, s *model.Session, r Replier) error {
	if err := b.conversation.StartLogin(s); err != nil {
		return r.SendText(ctx, msgAlreadyLoggedIn)
	}
	return r.SendText(ctx, stepPrompts[s.Step])
}

func (b *Dispatcher) startRegister(ctx context.Context, s *model.Session, r Replier) error {
	if err := b.conversation.StartRegister(s); err != nil {
		return r.SendText(ctx, msgAlreadyLoggedIn)
	}
	return r.SendText(ctx, stepPrompts[s.Step])
}

func (b *Dispatcher) logout(ctx context.Context, s *model.Session, r Replier) error {
	was, err := b.conversation.Logout(ctx, s)
	if !was {
		return r.SendText(ctx, msgNotLoggedIn)
	}
	if err != nil {
		b.logger.Warn("logout left reservations behind", zap.Int64("session_id", s.ID), zap.Error(err))
		return r.SendText(ctx, msgLogoutPartialFail)
	}
	return r.SendText(ctx, msgLoggedOut)
}

// Advanceの結果を返信する
func (b *Dispatcher) replyConversation(ctx context.Context, s *model.Session, out usecase.Outcome, err error, r Replier) error {
	if err != nil {
		if ve, ok := usecase.AsValidationError(err); ok {
			return r.SendText(ctx, validationPrompt(ve))
		}
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return r.SendText(ctx, msgLoginFailed)
		case errors.Is(err, usecase.ErrDuplicateEmail):
			return r.SendText(ctx, msgDuplicateEmail)
		}
		return b.replyError(ctx, s, err, r)
	}

	switch out.Completed {
	case model.FlowLogin:
		b.logger.Info("session authenticated", zap.Int64("session_id", s.ID), zap.Int64("user_id", out.UserID))
		return r.SendText(ctx, msgLoginOK)
	case model.FlowRegister:
		b.logger.Info("user registered", zap.Int64("session_id", s.ID), zap.Int64("user_id", out.UserID))
		return r.SendText(ctx, msgRegisterOK)
	}

	if prompt, ok := stepPrompts[out.Step]; ok {
		return r.SendText(ctx, prompt)
	}
	return nil
}

func validationPrompt(ve *usecase.ValidationError) string {
	switch ve.Field {
	case "email":
		if ve.Reason == "required" {
			return msgInvalidRequired
		}
		return msgInvalidEmail
	case "password":
		switch ve.Reason {
		case "required":
			return msgInvalidRequired
		case "too long":
			return msgPasswordTooLong
		}
		return msgInvalidPassword
	case "phone":
		if ve.Reason == "required" {
			return msgInvalidRequired
		}
		return msgInvalidPhone
	}
	if ve.Reason == "too long" {
		return msgInvalidTooLong
	}
	return msgInvalidRequired
}
