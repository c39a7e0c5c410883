package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storebot/internal/domain/model"
	"storebot/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	// email重複
	ErrEmailAlreadyExists = errors.New("email already exists")
	// 保存先の失敗
	ErrStore = errors.New("credential store failure")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// costが範囲外ならbcrypt.DefaultCost
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// 比較はbcrypt側で定数時間
func (h *BcryptPasswordHasher) Verify(plain string, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// 登録に必要な値（passwordはハッシュ済み）
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
}

// CredentialStoreはユーザー行の読み書きとパスワード照合をまとめる。
type CredentialStore struct {
	users  repository.UserRepository
	hasher *BcryptPasswordHasher
}

// DI
func NewCredentialStore(users repository.UserRepository, hasher *BcryptPasswordHasher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher}
}

func (s *CredentialStore) Hash(plain string) (string, error) {
	return s.hasher.Hash(plain)
}

func (s *CredentialStore) Verify(plain string, hashed string) bool {
	return s.hasher.Verify(plain, hashed)
}

// ユーザー作成。重複はErrEmailAlreadyExists、それ以外はErrStoreで包む。
func (s *CredentialStore) Create(ctx context.Context, in NewUser) (int64, error) {
	user := &model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        normalizeEmail(in.Email),
		PasswordHash: in.PasswordHash,
		Phone:        strings.TrimSpace(in.Phone),
	}

	// unique制約が無いDBでも重複を返せるように先に見る
	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if existing != nil {
		return 0, ErrEmailAlreadyExists
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return 0, ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return user.ID, nil
}

// 見つからなければ nil, nil
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
