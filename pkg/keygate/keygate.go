package keygate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// ErrEmptyKey は空の API キーが選択された場合のエラーです。
var ErrEmptyKey = errors.New("api key must not be empty")

// Host は API キーの選択状態を提供するホスト環境の機能です。
type Host interface {
	// HasSelectedAPIKey はキーが選択済みかを返します。
	HasSelectedAPIKey(ctx context.Context) (bool, error)
	// OpenSelectKey はキー選択を開始します。
	OpenSelectKey(ctx context.Context) error
}

// Gate はメイン画面を表示してよいかを判定します。
// Host が nil の場合は常に許可し、一度許可された後は再確認しません。
type Gate struct {
	host      Host
	satisfied atomic.Bool
	group     singleflight.Group
}

// NewGate は Gate を初期化します。
func NewGate(host Host) *Gate {
	g := &Gate{host: host}
	if host == nil {
		g.satisfied.Store(true)
	}
	return g
}

// Check はキーが選択済みかを確認します。同時に呼ばれた確認は1回の問い合わせにまとめられます。
func (g *Gate) Check(ctx context.Context) (bool, error) {
	if g.satisfied.Load() {
		return true, nil
	}
	v, err, _ := g.group.Do("check", func() (interface{}, error) {
		return g.host.HasSelectedAPIKey(ctx)
	})
	if err != nil {
		return false, err
	}
	ok := v.(bool)
	if ok {
		g.satisfied.Store(true)
	}
	return ok, nil
}

// Open はホストのキー選択を開始します。選択後は確認の完了を待たずに許可状態になります。
func (g *Gate) Open(ctx context.Context) error {
	if g.host == nil {
		return nil
	}
	if err := g.host.OpenSelectKey(ctx); err != nil {
		return err
	}
	g.satisfied.Store(true)
	return nil
}

// KeyHolder はメモリ上に API キーを保持するホスト実装です。
// generator.KeySource としても使用できます。
type KeyHolder struct {
	mu  sync.RWMutex
	key string
	// pending は次の OpenSelectKey で選択されるキーです。
	pending string
}

// NewKeyHolder は初期キーを持つ KeyHolder を返します。空文字列の場合は未選択です。
func NewKeyHolder(initial string) *KeyHolder {
	return &KeyHolder{key: strings.TrimSpace(initial)}
}

// APIKey は現在のキーを返します。
func (h *KeyHolder) APIKey() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.key
}

// HasSelectedAPIKey はキーが設定されているかを返します。
func (h *KeyHolder) HasSelectedAPIKey(_ context.Context) (bool, error) {
	return h.APIKey() != "", nil
}

// Select はキーを直接設定します。
func (h *KeyHolder) Select(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = key
	h.pending = ""
	return nil
}

// Offer は次の OpenSelectKey で選択されるキーを預けます。
func (h *KeyHolder) Offer(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending = strings.TrimSpace(key)
}

// OpenSelectKey は Offer で預けられたキーを選択します。預けられたキーがなければ ErrEmptyKey です。
func (h *KeyHolder) OpenSelectKey(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending == "" {
		return ErrEmptyKey
	}
	h.key = h.pending
	h.pending = ""
	return nil
}
