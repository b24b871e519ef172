package publisher

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shouni/go-social-kit/pkg/asset"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
)

type memoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (w *memoryWriter) Write(_ context.Context, path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if w.files == nil {
		w.files = make(map[string][]byte)
	}
	w.files[path] = data
	return nil
}

func newState(t *testing.T, cache *asset.Cache) *domain.CampaignState {
	t.Helper()
	draft := domain.CampaignDraft{
		LinkedIn:  &domain.DraftPost{Text: "linkedin copy", ImagePrompt: "office"},
		Twitter:   &domain.DraftPost{Text: "tweet", ImagePrompt: "bird"},
		Instagram: &domain.DraftPost{Text: "insta", ImagePrompt: "sunset"},
	}
	state := domain.NewCampaignState("c-1", domain.Brief{Idea: "Launch X", Tone: domain.ToneWitty, Language: domain.English}, draft, time.Now())

	ref, err := cache.Put(generator.ImageResponse{Data: []byte("png"), MimeType: "image/png"})
	if err != nil {
		t.Fatal(err)
	}
	e := state.Entries[domain.LinkedIn]
	e.ImageURL = ref
	e.IsGeneratingImage = false
	state = state.WithEntry(domain.LinkedIn, e)

	// twitter は画像生成に失敗した状態
	e = state.Entries[domain.Twitter]
	e.IsGeneratingImage = false
	state = state.WithEntry(domain.Twitter, e)

	// instagram は期限切れなどでキャッシュに存在しない参照
	e = state.Entries[domain.Instagram]
	e.ImageURL = asset.RoutePrefix + "expired.png"
	e.IsGeneratingImage = false
	return state.WithEntry(domain.Instagram, e)
}

func TestCampaignPublisher_Publish(t *testing.T) {
	t.Run("画像と Markdown が書き出されること", func(t *testing.T) {
		cache := asset.NewCache(time.Hour, time.Hour)
		w := &memoryWriter{}
		p := NewCampaignPublisher(w, cache)

		result, err := p.Publish(context.Background(), newState(t, cache), "out")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		wantImage := filepath.Join("out", "images", "linkedin.png")
		if got := result.ImagePaths[domain.LinkedIn]; got != wantImage {
			t.Errorf("画像パス: 期待値 %s, 実際の値 %s", wantImage, got)
		}
		if len(result.ImagePaths) != 1 {
			t.Errorf("画像の数: 期待値 1, 実際の値 %d", len(result.ImagePaths))
		}
		if string(w.files[wantImage]) != "png" {
			t.Errorf("画像データが書き込まれていません")
		}

		md := string(w.files[result.MarkdownPath])
		for _, want := range []string{"# SocialGen", "## LinkedIn", "linkedin copy", "![LinkedIn](images/linkedin.png)", "## Twitter / X", "_Failed to load_", "- aspect_ratio: 1:1"} {
			if !strings.Contains(md, want) {
				t.Errorf("Markdown に %q が含まれていません:\n%s", want, md)
			}
		}
	})

	t.Run("書き込みに失敗した場合はエラーを返すこと", func(t *testing.T) {
		cache := asset.NewCache(time.Hour, time.Hour)
		errDisk := errors.New("disk full")
		p := NewCampaignPublisher(&memoryWriter{err: errDisk}, cache)

		if _, err := p.Publish(context.Background(), newState(t, cache), "out"); !errors.Is(err, errDisk) {
			t.Errorf("期待したエラーではありません: %v", err)
		}
	})

	t.Run("キャンペーンがない場合はエラーを返すこと", func(t *testing.T) {
		p := NewCampaignPublisher(&memoryWriter{}, asset.NewCache(time.Hour, time.Hour))
		if _, err := p.Publish(context.Background(), nil, "out"); err == nil {
			t.Error("エラーが返りませんでした")
		}
	})
}

func TestResolveOutputPath(t *testing.T) {
	if got, err := ResolveOutputPath("", "a.md"); err != nil || got != "a.md" {
		t.Errorf("期待値 a.md, 実際の値 %q (err: %v)", got, err)
	}
	for _, name := range []string{"", "..", "../x", "a/b"} {
		if _, err := ResolveOutputPath("out", name); err == nil {
			t.Errorf("%q でエラーになりませんでした", name)
		}
	}
}

func TestLocalWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.txt")
	if err := (LocalWriter{}).Write(context.Background(), path, []byte("ok")); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	am := NewAssetManager(LocalWriter{}, dir)
	saved, err := am.Save(context.Background(), "b.txt", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if saved != filepath.Join(dir, "b.txt") {
		t.Errorf("保存先が違います: %s", saved)
	}
}
