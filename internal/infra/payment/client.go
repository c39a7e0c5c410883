package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storebot/internal/config"
	"storebot/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// エラー本文をどこまで読むか
const maxBodyBytes = 64 << 10

// ゲートウェイの応答
type response struct {
	Success    bool   `json:"success"`
	PaymentURL string `json:"payment_url"`
	Error      string `json:"error"`
}

// HTTPでゲートウェイを呼ぶクライアント。リトライはしない。
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// DI
func NewClient(cfg config.PaymentConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    cfg.URL,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// 2xx かつ success=true かつ payment_url が空でなければ成功。
// それ以外はすべて *usecase.GatewayError。
func (c *Client) CreatePayment(ctx context.Context, req usecase.PaymentRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", &usecase.GatewayError{Detail: "invalid request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &usecase.GatewayError{Detail: "invalid gateway url", Err: err}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.Int64("user_id", req.UserID),
		zap.Int64("subtotal", req.Subtotal),
	)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("payment gateway unreachable", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &usecase.GatewayError{Detail: "timeout", Err: err}
		}
		return "", &usecase.GatewayError{Detail: "unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &usecase.GatewayError{Detail: "read failed", Err: err}
	}

	log.Info("payment gateway responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	var out response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("status %d", resp.StatusCode)
		if decodeErr == nil && out.Error != "" {
			detail = out.Error
		}
		return "", &usecase.GatewayError{Detail: detail}
	}
	if decodeErr != nil {
		return "", &usecase.GatewayError{Detail: "malformed response", Err: decodeErr}
	}
	if !out.Success {
		detail := strings.TrimSpace(out.Error)
		if detail == "" {
			detail = "payment rejected"
		}
		return "", &usecase.GatewayError{Detail: detail}
	}
	if strings.TrimSpace(out.PaymentURL) == "" {
		return "", &usecase.GatewayError{Detail: "missing payment url"}
	}

	return out.PaymentURL, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
