package repository

import (
	"context"
	"time"

	"storebot/internal/domain/model"
)

// 会話セッションの置き場所。プロセス内で完結する。
type SessionRepository interface {
	// 無ければ作る。LastSeenAtを更新する。
	GetOrCreate(ctx context.Context, sessionID int64) (*model.Session, error)
	// GetOrCreateと同じだが、Releaseまで EvictIdle の対象にしない
	Acquire(ctx context.Context, sessionID int64) (*model.Session, error)
	Release(ctx context.Context, sessionID int64)
	Delete(ctx context.Context, sessionID int64) error
	// idleより長く触られていないセッションを捨てる（Acquire中は除く）。捨てた件数を返す。
	EvictIdle(ctx context.Context, idle time.Duration) (int, error)
}
