package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"storebot/internal/usecase"
)

const (
	minPasswordLen   = 8
	// bcrypt が扱えるのは72バイトまで
	maxPasswordBytes = 72
	maxNameLen       = 64
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

type registrationValidator struct{}

// Usecaseは interface を依存注入
func NewRegistrationValidator() usecase.RegistrationValidator {
	return &registrationValidator{}
}

// 姓・名
func (v *registrationValidator) ValidateName(field string, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return usecase.NewValidationError(field, "required")
	}
	if utf8.RuneCountInString(s) > maxNameLen {
		return usecase.NewValidationError(field, "too long")
	}
	return nil
}

func (v *registrationValidator) ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return usecase.NewValidationError("email", "required")
	}
	if !isEmailLike(s) {
		return usecase.NewValidationError("email", "invalid format")
	}
	return nil
}

// パスワード最低文字数（8）、最大72バイト
func (v *registrationValidator) ValidatePassword(s string) error {
	if strings.TrimSpace(s) == "" {
		return usecase.NewValidationError("password", "required")
	}
	if utf8.RuneCountInString(s) < minPasswordLen {
		return usecase.NewValidationError("password", "too short")
	}
	if len(s) > maxPasswordBytes {
		return usecase.NewValidationError("password", "too long")
	}
	return nil
}

// 数字7〜15桁（先頭+可）
func (v *registrationValidator) ValidatePhone(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return usecase.NewValidationError("phone", "required")
	}
	if !phonePattern.MatchString(s) {
		return usecase.NewValidationError("phone", "invalid format")
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	if !emailPattern.MatchString(s) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
