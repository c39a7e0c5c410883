package telegram

import "sync"

// セッションごとにFIFOで1件ずつ処理する。別セッションは並行。
type serializer struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func newSerializer() *serializer {
	return &serializer{pending: make(map[int64][]func())}
}

func (s *serializer) Do(key int64, fn func()) {
	s.mu.Lock()
	if q, busy := s.pending[key]; busy {
		s.pending[key] = append(q, fn)
		s.mu.Unlock()
		return
	}
	s.pending[key] = nil
	s.wg.Add(1)
	s.mu.Unlock()

	go s.drain(key, fn)
}

func (s *serializer) drain(key int64, fn func()) {
	defer s.wg.Done()
	for {
		fn()

		s.mu.Lock()
		q := s.pending[key]
		if len(q) == 0 {
			delete(s.pending, key)
			s.mu.Unlock()
			return
		}
		fn = q[0]
		s.pending[key] = q[1:]
		s.mu.Unlock()
	}
}

// 受け付け済みのものが全部終わるまで待つ
func (s *serializer) Wait() {
	s.wg.Wait()
}
