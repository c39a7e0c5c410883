package usecase

import (
	"errors"
	"fmt"
)

var (
	// 入力不正（再入力してもらう）
	ErrValidation = errors.New("validation error")
	// 行が無い（ユーザー・商品・注文）
	ErrNotFound = errors.New("not found")
	// 登録済みemail
	ErrDuplicateEmail = errors.New("duplicate email")
	// DBが使えない・書き込み失敗
	ErrPersistence = errors.New("persistence error")
	// ログインが必要
	ErrNotAuthenticated = errors.New("not authenticated")
	// カートが空
	ErrEmptyCart = errors.New("empty cart")
	// emailかパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	// 他人の注文など
	ErrForbidden = errors.New("forbidden")
	// ブックマーク済み
	ErrAlreadyBookmarked = errors.New("already bookmarked")
)

// 購入上限に達した
type LimitExceededError struct {
	Limit int64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit exceeded: %d", e.Limit)
}

// 決済ゲートウェイの失敗。Detailはユーザーに見せてよい文言。
type GatewayError struct {
	Detail string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Detail == "" {
		return "gateway error"
	}
	return "gateway error: " + e.Detail
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// 入力エラーに理由を付ける
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field string, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func AsLimitExceeded(err error) (*LimitExceededError, bool) {
	var le *LimitExceededError
	ok := errors.As(err, &le)
	return le, ok
}

func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	ok := errors.As(err, &ge)
	return ge, ok
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
