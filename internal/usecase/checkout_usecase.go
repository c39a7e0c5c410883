package usecase

import (
	"context"
	"errors"
	"time"

	"storebot/internal/domain/model"

	"go.uber.org/zap"
)

// ゲートウェイに送る明細
type PaymentProduct struct {
	ProductID int64 `json:"product_id"`
	Price     int64 `json:"price"`
	Discount  int64 `json:"discount"`
	Quantity  int64 `json:"quantity"`
}

// ゲートウェイに送る本体
type PaymentRequest struct {
	UserID   int64            `json:"user_id"`
	Subtotal int64            `json:"subtotal"`
	Products []PaymentProduct `json:"products"`
}

// 外部の決済ゲートウェイ。成功なら支払いURLを返す。
// 失敗は*GatewayErrorで返すこと（それ以外は包んで扱う）。
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (string, error)
}

// チェックアウト1回分の記録
type CheckoutRecord struct {
	SessionID  int64
	UserID     int64
	Request    PaymentRequest
	PaymentURL string
	Err        string
	At         time.Time
}

// 記録先（失敗してもチェックアウトは止めない）
type CheckoutJournal interface {
	Record(ctx context.Context, rec CheckoutRecord) error
}

type CheckoutUsecase struct {
	cart    *CartUsecase
	gateway PaymentGateway
	journal CheckoutJournal
	clock   Clock
	logger  *zap.Logger
}

// DI
func NewCheckoutUsecase(
	cart *CartUsecase,
	gateway PaymentGateway,
	journal CheckoutJournal,
	clock Clock,
	logger *zap.Logger,
) *CheckoutUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutUsecase{
		cart:    cart,
		gateway: gateway,
		journal: journal,
		clock:   clock,
		logger:  logger,
	}
}

// 合計を計算し直してゲートウェイへ。成功したらカートを空にしてURLを返す。
// 失敗時はカートをそのまま残す。リトライはしない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, s *model.Session) (string, error) {
	if !s.Authenticated {
		return "", ErrNotAuthenticated
	}
	if s.Cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	sum, err := u.cart.Total(ctx, s)
	if err != nil {
		return "", err
	}
	// 全部カタログから消えていた
	if sum.IsEmpty() {
		return "", ErrEmptyCart
	}

	req := BuildPaymentRequest(s.UserID, sum)

	url, err := u.gateway.CreatePayment(ctx, req)
	if err != nil {
		var ge *GatewayError
		if !errors.As(err, &ge) {
			ge = &GatewayError{Err: err}
		}
		u.record(ctx, s, req, "", ge.Error())
		return "", ge
	}
	if url == "" {
		ge := &GatewayError{Detail: "empty payment url"}
		u.record(ctx, s, req, "", ge.Error())
		return "", ge
	}

	u.record(ctx, s, req, url, "")

	// 予約は支払い待ちの確保として残す
	s.Cart.Reset()
	return url, nil
}

// 合計からゲートウェイの送信内容を作る
func BuildPaymentRequest(userID int64, sum CartSummary) PaymentRequest {
	req := PaymentRequest{
		UserID:   userID,
		Subtotal: sum.GrandTotal,
		Products: make([]PaymentProduct, 0, len(sum.Lines)),
	}
	for _, l := range sum.Lines {
		req.Products = append(req.Products, PaymentProduct{
			ProductID: l.Product.ID,
			Price:     l.Product.Price,
			Discount:  l.Product.Discount,
			Quantity:  l.Quantity,
		})
	}
	return req
}

func (u *CheckoutUsecase) record(ctx context.Context, s *model.Session, req PaymentRequest, url string, errText string) {
	if u.journal == nil {
		return
	}
	rec := CheckoutRecord{
		SessionID:  s.ID,
		UserID:     s.UserID,
		Request:    req,
		PaymentURL: url,
		Err:        errText,
		At:         u.clock.Now(),
	}
	if err := u.journal.Record(ctx, rec); err != nil {
		u.logger.Warn("checkout journal write failed",
			zap.Int64("session_id", s.ID),
			zap.Error(err),
		)
	}
}
