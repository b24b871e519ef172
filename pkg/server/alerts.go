package server

import (
	"context"
	"log/slog"
	"sync"
)

// AlertHub はテキスト生成の失敗を接続中の画面に届ける campaign.Alerter です。
// 文言は各接続の表示言語で SSE ハンドラーが決定します。
type AlertHub struct {
	clients map[chan error]struct{}
	mu      sync.RWMutex
}

// NewAlertHub は AlertHub を初期化します。
func NewAlertHub() *AlertHub {
	return &AlertHub{
		clients: make(map[chan error]struct{}),
	}
}

// Alert は失敗をログに記録し、購読中の接続に配信します。受信が詰まっている接続には送りません。
func (h *AlertHub) Alert(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Campaign generation failed", "request_id", RequestIDFrom(ctx), "error", err)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- err:
		default:
		}
	}
}

func (h *AlertHub) subscribe() (<-chan error, func()) {
	ch := make(chan error, 1)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.clients, ch)
			close(ch)
		})
	}
}
