package keygate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingHost struct {
	selected atomic.Bool
	checks   atomic.Int32
	delay    time.Duration
	err      error
}

func (h *countingHost) HasSelectedAPIKey(_ context.Context) (bool, error) {
	h.checks.Add(1)
	if h.delay > 0 {
		time.Sleep(h.delay)
	}
	if h.err != nil {
		return false, h.err
	}
	return h.selected.Load(), nil
}

func (h *countingHost) OpenSelectKey(_ context.Context) error {
	h.selected.Store(true)
	return nil
}

func TestGate_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("Host がない場合は常に許可されること", func(t *testing.T) {
		g := NewGate(nil)
		ok, err := g.Check(ctx)
		if err != nil || !ok {
			t.Errorf("許可されませんでした: ok=%v err=%v", ok, err)
		}
		if err := g.Open(ctx); err != nil {
			t.Errorf("予期しないエラー: %v", err)
		}
	})

	t.Run("一度許可された後はホストに問い合わせないこと", func(t *testing.T) {
		host := &countingHost{}
		g := NewGate(host)

		if ok, _ := g.Check(ctx); ok {
			t.Fatal("未選択なのに許可されました")
		}
		host.selected.Store(true)
		for i := 0; i < 3; i++ {
			if ok, _ := g.Check(ctx); !ok {
				t.Fatal("選択済みなのに許可されませんでした")
			}
		}
		if got := host.checks.Load(); got != 2 {
			t.Errorf("問い合わせ回数: 期待値 2, 実際の値 %d", got)
		}
	})

	t.Run("同時の確認はまとめられること", func(t *testing.T) {
		host := &countingHost{delay: 50 * time.Millisecond}
		host.selected.Store(true)
		g := NewGate(host)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, err := g.Check(ctx); !ok || err != nil {
					t.Errorf("許可されませんでした: ok=%v err=%v", ok, err)
				}
			}()
		}
		wg.Wait()
		if got := host.checks.Load(); got >= 10 {
			t.Errorf("問い合わせがまとめられていません: %d", got)
		}
	})

	t.Run("ホストのエラーを返すこと", func(t *testing.T) {
		errHost := errors.New("host unavailable")
		g := NewGate(&countingHost{err: errHost})
		if _, err := g.Check(ctx); !errors.Is(err, errHost) {
			t.Errorf("期待したエラーではありません: %v", err)
		}
	})

	t.Run("Open の後は許可されること", func(t *testing.T) {
		host := &countingHost{}
		g := NewGate(host)
		if err := g.Open(ctx); err != nil {
			t.Fatal(err)
		}
		if ok, _ := g.Check(ctx); !ok {
			t.Error("Open の後に許可されませんでした")
		}
		if host.checks.Load() != 0 {
			t.Errorf("Open の後に問い合わせが行われました: %d", host.checks.Load())
		}
	})
}

func TestKeyHolder(t *testing.T) {
	ctx := context.Background()

	t.Run("初期キーがあれば選択済みであること", func(t *testing.T) {
		h := NewKeyHolder("  secret ")
		if ok, _ := h.HasSelectedAPIKey(ctx); !ok {
			t.Error("選択済みになっていません")
		}
		if h.APIKey() != "secret" {
			t.Errorf("キーが正規化されていません: %q", h.APIKey())
		}
	})

	t.Run("Offer と OpenSelectKey でキーが選択されること", func(t *testing.T) {
		h := NewKeyHolder("")
		if ok, _ := h.HasSelectedAPIKey(ctx); ok {
			t.Fatal("空の初期キーで選択済みになっています")
		}
		if err := h.OpenSelectKey(ctx); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("ErrEmptyKey を期待しましたが %v でした", err)
		}
		h.Offer("k1")
		if err := h.OpenSelectKey(ctx); err != nil {
			t.Fatal(err)
		}
		if h.APIKey() != "k1" {
			t.Errorf("キーが選択されていません: %q", h.APIKey())
		}
	})

	t.Run("空のキーは Select できないこと", func(t *testing.T) {
		h := NewKeyHolder("old")
		if err := h.Select(" "); !errors.Is(err, ErrEmptyKey) {
			t.Errorf("ErrEmptyKey を期待しましたが %v でした", err)
		}
		if err := h.Select("new"); err != nil {
			t.Fatal(err)
		}
		if h.APIKey() != "new" {
			t.Errorf("キーが更新されていません: %q", h.APIKey())
		}
	})
}
