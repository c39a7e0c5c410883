package usecase

import (
	"context"
	"errors"
	"strings"

	"storebot/internal/domain/model"
	auth "storebot/internal/usecase/auth_usecase"
)

// ログイン済みで再度ログイン・登録しようとした
var ErrAlreadyAuthenticated = errors.New("already authenticated")

// usecaseがValidatorInterfaceに依存する約束
type RegistrationValidator interface {
	ValidateName(field string, s string) error
	ValidateEmail(s string) error
	ValidatePassword(s string) error
	ValidatePhone(s string) error
}

// 資格情報の保存・照合
type CredentialStore interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
	Create(ctx context.Context, in auth.NewUser) (int64, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// ログアウト時にカートと予約を捨てる
type CartClearer interface {
	Clear(ctx context.Context, s *model.Session) error
}

// Advanceの結果
type Outcome struct {
	// フロー中のテキストとして処理したか
	Consumed bool
	// 処理後に待っているステップ
	Step model.Step
	// 正常に完了したフロー（失敗・途中ならFlowNone）
	Completed model.Flow
	// ログイン・登録したユーザー
	UserID int64
}

type ConversationUsecase struct {
	credentials CredentialStore
	validator   RegistrationValidator
	cart        CartClearer
}

// DI
func NewConversationUsecase(
	credentials CredentialStore,
	validator RegistrationValidator,
	cart CartClearer,
) *ConversationUsecase {
	return &ConversationUsecase{
		credentials: credentials,
		validator:   validator,
		cart:        cart,
	}
}

// ログインフロー開始（LOGIN_EMAIL）
func (u *ConversationUsecase) StartLogin(s *model.Session) error {
	if s.Authenticated {
		return ErrAlreadyAuthenticated
	}
	s.Begin(model.FlowLogin, model.StepLoginEmail)
	return nil
}

// 登録フロー開始（REGISTER_FIRST_NAME）
func (u *ConversationUsecase) StartRegister(s *model.Session) error {
	if s.Authenticated {
		return ErrAlreadyAuthenticated
	}
	s.Begin(model.FlowRegister, model.StepRegisterFirstName)
	return nil
}

// 進行中のフローを捨てる。フロー中だったかを返す。
func (u *ConversationUsecase) Cancel(s *model.Session) bool {
	active := s.InFlow()
	s.EndFlow()
	return active
}

// 認証を外し、カートと予約を捨てる。ログインしていたかを返す。
func (u *ConversationUsecase) Logout(ctx context.Context, s *model.Session) (bool, error) {
	s.EndFlow()
	if !s.Authenticated {
		return false, nil
	}

	err := u.cart.Clear(ctx, s)
	// 予約の削除に失敗してもログアウトはする
	s.Cart.Reset()
	s.SignOut()
	return true, err
}

// フロー中のテキストを1つ進める。
// 入力エラーはステップに留まり、ログイン・登録の最終ステップは結果に関わらずIDLEへ戻る。
func (u *ConversationUsecase) Advance(ctx context.Context, s *model.Session, text string) (Outcome, error) {
	if !s.InFlow() {
		return Outcome{Consumed: false, Step: s.Step}, nil
	}

	switch s.Step {
	case model.StepLoginEmail:
		s.Scratch.Email = strings.TrimSpace(text)
		s.Step = model.StepLoginPassword
		return u.prompt(s), nil

	case model.StepLoginPassword:
		s.Scratch.Password = text
		return u.finishLogin(ctx, s)

	case model.StepRegisterFirstName:
		if err := u.validator.ValidateName("first_name", text); err != nil {
			return u.prompt(s), err
		}
		s.Scratch.FirstName = strings.TrimSpace(text)
		s.Step = model.StepRegisterLastName
		return u.prompt(s), nil

	case model.StepRegisterLastName:
		if err := u.validator.ValidateName("last_name", text); err != nil {
			return u.prompt(s), err
		}
		s.Scratch.LastName = strings.TrimSpace(text)
		s.Step = model.StepRegisterEmail
		return u.prompt(s), nil

	case model.StepRegisterEmail:
		if err := u.validator.ValidateEmail(text); err != nil {
			return u.prompt(s), err
		}
		s.Scratch.Email = strings.TrimSpace(text)
		s.Step = model.StepRegisterPassword
		return u.prompt(s), nil

	case model.StepRegisterPassword:
		if err := u.validator.ValidatePassword(text); err != nil {
			return u.prompt(s), err
		}
		s.Scratch.Password = text
		s.Step = model.StepRegisterPhone
		return u.prompt(s), nil

	case model.StepRegisterPhone:
		if err := u.validator.ValidatePhone(text); err != nil {
			return u.prompt(s), err
		}
		s.Scratch.Phone = strings.TrimSpace(text)
		return u.finishRegister(ctx, s)
	}

	// 想定外のステップは捨ててIDLEへ
	s.EndFlow()
	return Outcome{Consumed: false, Step: s.Step}, nil
}

func (u *ConversationUsecase) prompt(s *model.Session) Outcome {
	return Outcome{Consumed: true, Step: s.Step}
}

func (u *ConversationUsecase) finishLogin(ctx context.Context, s *model.Session) (Outcome, error) {
	email := s.Scratch.Email
	password := s.Scratch.Password
	// 結果に関わらずフローは終わり
	s.EndFlow()

	out := Outcome{Consumed: true, Step: s.Step}

	user, err := u.credentials.FindByEmail(ctx, email)
	if err != nil {
		return out, ErrPersistence
	}
	if user == nil {
		return out, ErrInvalidCredentials
	}
	if !u.credentials.Verify(password, user.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	s.SignIn(user)
	out.Completed = model.FlowLogin
	out.UserID = user.ID
	return out, nil
}

func (u *ConversationUsecase) finishRegister(ctx context.Context, s *model.Session) (Outcome, error) {
	scratch := s.Scratch
	s.EndFlow()

	out := Outcome{Consumed: true, Step: s.Step}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	hash, err := u.credentials.Hash(scratch.Password)
	if err != nil {
		return out, ErrPersistence
	}

	id, err := u.credentials.Create(ctx, auth.NewUser{
		FirstName:    scratch.FirstName,
		LastName:     scratch.LastName,
		Email:        scratch.Email,
		PasswordHash: hash,
		Phone:        scratch.Phone,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			return out, ErrDuplicateEmail
		}
		return out, ErrPersistence
	}

	out.Completed = model.FlowRegister
	out.UserID = id
	return out, nil
}
