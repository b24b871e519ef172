package campaign

import (
	"sync"
)

// subscribers は状態変更の購読者を管理します。配信はブロックせず、
// 受信が追いつかない購読者には最新のスナップショットだけを残します。
type subscribers struct {
	clients map[chan Snapshot]struct{}
	mu      sync.RWMutex
}

func newSubscribers() *subscribers {
	return &subscribers{
		clients: make(map[chan Snapshot]struct{}),
	}
}

func (s *subscribers) add() chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[ch] = struct{}{}
	return ch
}

func (s *subscribers) remove(ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[ch]; !ok {
		return
	}
	delete(s.clients, ch)
	close(ch)
}

func (s *subscribers) broadcast(snap Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.clients {
		select {
		case ch <- snap:
			continue
		default:
		}
		// 古いスナップショットを捨てて最新に差し替える
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *subscribers) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
