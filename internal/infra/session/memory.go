package session

import (
	"context"
	"sync"
	"time"

	"storebot/internal/domain/model"
)

// Clock は現在時刻の約束
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// MemoryStore はプロセス内のセッション置き場。
// mapの出し入れだけをロックし、Session自体の更新は呼び出し側が直列化する。
// Acquire中のセッションはEvictIdleで捨てない。
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*model.Session
	busy     map[int64]int
	clock    Clock
}

// DI（clockがnilなら実時間）
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = realClock{}
	}
	return &MemoryStore{
		sessions: make(map[int64]*model.Session),
		busy:     make(map[int64]int),
		clock:    clock,
	}
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, sessionID int64) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(sessionID), nil
}

// Acquire はGetOrCreateに加えて、Releaseまで掃除の対象から外す。
func (s *MemoryStore) Acquire(ctx context.Context, sessionID int64) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(sessionID)
	s.busy[sessionID]++
	return sess, nil
}

// Release は処理の終わりを記録する。LastSeenAtも終了時刻にする。
func (s *MemoryStore) Release(ctx context.Context, sessionID int64) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.busy[sessionID]; n <= 1 {
		delete(s.busy, sessionID)
	} else {
		s.busy[sessionID] = n - 1
	}
	if sess, ok := s.sessions[sessionID]; ok {
		sess.LastSeenAt = now
	}
}

func (s *MemoryStore) getOrCreateLocked(sessionID int64) *model.Session {
	now := s.clock.Now()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = model.NewSession(sessionID, now)
		s.sessions[sessionID] = sess
	}
	sess.LastSeenAt = now
	return sess
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) EvictIdle(ctx context.Context, idle time.Duration) (int, error) {
	if idle <= 0 {
		return 0, nil
	}
	cutoff := s.clock.Now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if s.busy[id] > 0 {
			continue
		}
		if sess.LastSeenAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len は保持しているセッション数
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor は every ごとに idle を超えたセッションを捨てる。ctxが終わるまで戻らない。
func (s *MemoryStore) RunJanitor(ctx context.Context, every time.Duration, idle time.Duration, onEvict func(n int)) {
	if every <= 0 || idle <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, _ := s.EvictIdle(ctx, idle)
			if n > 0 && onEvict != nil {
				onEvict(n)
			}
		}
	}
}
