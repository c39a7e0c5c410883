package model

import "time"

type Flow string

const (
	FlowNone     Flow = ""
	FlowLogin    Flow = "login"
	FlowRegister Flow = "register"
)

type Step string

const (
	StepIdle              Step = "IDLE"
	StepLoginEmail        Step = "LOGIN_EMAIL"
	StepLoginPassword     Step = "LOGIN_PASSWORD"
	StepRegisterFirstName Step = "REGISTER_FIRST_NAME"
	StepRegisterLastName  Step = "REGISTER_LAST_NAME"
	StepRegisterEmail     Step = "REGISTER_EMAIL"
	StepRegisterPassword  Step = "REGISTER_PASSWORD"
	StepRegisterPhone     Step = "REGISTER_PHONE"
)

// フロー途中で集める一時データ
type Scratch struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// 1チャットユーザーの会話コンテキスト。プロセス再起動で消える。
// 同一セッションのイベントはトランスポート側で直列化される前提なので、ここではロックしない。
type Session struct {
	ID   int64
	Flow Flow
	Step Step

	Scratch Scratch

	Authenticated bool
	UserID        int64
	UserEmail     string

	Cart Cart

	// 一覧のカーソル
	CategoryID  int64
	ProductPage int
	OrdersPage  int

	CreatedAt  time.Time
	LastSeenAt time.Time
}

func NewSession(id int64, now time.Time) *Session {
	return &Session{
		ID:         id,
		Flow:       FlowNone,
		Step:       StepIdle,
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

// フローを開始する。一時データは必ず捨てる。
func (s *Session) Begin(flow Flow, step Step) {
	s.Scratch = Scratch{}
	s.Flow = flow
	s.Step = step
}

// フローを終了してIDLEへ戻す
func (s *Session) EndFlow() {
	s.Scratch = Scratch{}
	s.Flow = FlowNone
	s.Step = StepIdle
}

func (s *Session) InFlow() bool {
	return s.Flow != FlowNone && s.Step != StepIdle
}

func (s *Session) SignIn(user *User) {
	s.Authenticated = true
	s.UserID = user.ID
	s.UserEmail = user.Email
}

func (s *Session) SignOut() {
	s.Authenticated = false
	s.UserID = 0
	s.UserEmail = ""
}
