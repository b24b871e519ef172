package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shouni/go-social-kit/pkg/campaign"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
	"github.com/shouni/go-social-kit/pkg/publisher"
)

type stubText struct{ err error }

func (s stubText) GenerateText(_ context.Context, _ domain.Brief) (domain.CampaignDraft, error) {
	if s.err != nil {
		return domain.CampaignDraft{}, s.err
	}
	return domain.CampaignDraft{
		LinkedIn:  &domain.DraftPost{Text: "A", ImagePrompt: "B"},
		Twitter:   &domain.DraftPost{Text: "C", ImagePrompt: "D"},
		Instagram: &domain.DraftPost{Text: "E", ImagePrompt: "F"},
	}, nil
}

// stubImages は twitter 用のプロンプトだけ失敗させます。
type stubImages struct{}

func (stubImages) GenerateImage(_ context.Context, req generator.ImageRequest) (*generator.ImageResponse, error) {
	if req.Prompt == "D" {
		return nil, generator.ErrNoImage
	}
	return &generator.ImageResponse{Data: []byte(req.Prompt), MimeType: "image/png"}, nil
}

// blockingImages はキャンセルされるまで戻らない画像生成です。
type blockingImages struct {
	started   chan struct{}
	cancelled atomic.Int32
}

func (b *blockingImages) GenerateImage(ctx context.Context, _ generator.ImageRequest) (*generator.ImageResponse, error) {
	b.started <- struct{}{}
	<-ctx.Done()
	b.cancelled.Add(1)
	return nil, ctx.Err()
}

type recordingPublisher struct {
	state *domain.CampaignState
	dir   string
}

func (p *recordingPublisher) Publish(_ context.Context, state *domain.CampaignState, outputDir string) (publisher.PublishResult, error) {
	p.state = state
	p.dir = outputDir
	return publisher.PublishResult{MarkdownPath: outputDir + "/campaign.md"}, nil
}

func newStore(t *testing.T, text generator.TextGenerator) *campaign.Store {
	t.Helper()
	store, err := campaign.NewStore(text, stubImages{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestCampaignRunner_Run(t *testing.T) {
	t.Run("すべての画像生成が終わった状態を返すこと", func(t *testing.T) {
		r := NewCampaignRunner(newStore(t, stubText{}), nil)

		state, err := r.Run(context.Background(), domain.Brief{Idea: "Launch X", Tone: domain.ToneUrgent, Language: domain.Chinese})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		for _, p := range domain.Platforms {
			if state.Entries[p].IsGeneratingImage {
				t.Errorf("%s が生成中のままです", p)
			}
		}
		if state.Entries[domain.Twitter].HasImage() {
			t.Error("失敗した twitter に画像があります")
		}
		if !state.Entries[domain.Instagram].HasImage() {
			t.Error("instagram の画像がありません")
		}
		if state.Language != domain.Chinese || state.Tone != domain.ToneUrgent {
			t.Errorf("入力が反映されていません: %+v", state)
		}
	})

	t.Run("空のアイデアはエラーになること", func(t *testing.T) {
		r := NewCampaignRunner(newStore(t, stubText{}), nil)
		if _, err := r.Run(context.Background(), domain.Brief{Idea: " "}); !errors.Is(err, ErrEmptyIdea) {
			t.Errorf("ErrEmptyIdea を期待しましたが %v でした", err)
		}
	})

	t.Run("テキスト生成の失敗を返すこと", func(t *testing.T) {
		r := NewCampaignRunner(newStore(t, stubText{err: errors.New("boom")}), nil)
		if _, err := r.Run(context.Background(), domain.Brief{Idea: "x"}); !errors.Is(err, campaign.ErrTextGeneration) {
			t.Errorf("ErrTextGeneration を期待しましたが %v でした", err)
		}
	})
}

func TestCampaignRunner_Cancel(t *testing.T) {
	images := &blockingImages{started: make(chan struct{}, len(domain.Platforms))}
	store, err := campaign.NewStore(stubText{}, images)
	if err != nil {
		t.Fatal(err)
	}
	r := NewCampaignRunner(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := r.Run(ctx, domain.Brief{Idea: "Launch X"})
		errCh <- err
	}()
	for range domain.Platforms {
		select {
		case <-images.started:
		case <-time.After(2 * time.Second):
			t.Fatal("画像生成が開始されませんでした")
		}
	}

	t.Run("キャンセルされると画像生成を待たずに戻ること", func(t *testing.T) {
		cancel()
		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("context.Canceled を期待しましたが %v でした", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run が戻りませんでした")
		}
	})

	t.Run("Close で実行中の画像生成がキャンセルされること", func(t *testing.T) {
		store.Close()
		if got := images.cancelled.Load(); got != int32(len(domain.Platforms)) {
			t.Errorf("キャンセルされた画像生成の数: 期待値 %d, 実際の値 %d", len(domain.Platforms), got)
		}
	})
}

func TestCampaignRunner_RunAndSave(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewCampaignRunner(newStore(t, stubText{}), pub)

	state, result, err := r.RunAndSave(context.Background(), domain.Brief{Idea: "Launch X"}, "out")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if pub.state != state || pub.dir != "out" {
		t.Errorf("Publisher に結果が渡されていません: %+v", pub)
	}
	if result.MarkdownPath != "out/campaign.md" {
		t.Errorf("結果が違います: %+v", result)
	}
}
