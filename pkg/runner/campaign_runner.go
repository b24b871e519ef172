package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-social-kit/pkg/campaign"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/publisher"
)

// ErrEmptyIdea はアイデアが空のために何も生成されなかった場合のエラーです。
var ErrEmptyIdea = errors.New("idea must not be empty")

// Publisher はキャンペーンを書き出します。
type Publisher interface {
	Publish(ctx context.Context, state *domain.CampaignState, outputDir string) (publisher.PublishResult, error)
}

// CampaignRunner は1回分のキャンペーン生成を最後まで実行します。
type CampaignRunner struct {
	store     *campaign.Store
	publisher Publisher
}

// NewCampaignRunner は依存関係を注入して初期化します。
func NewCampaignRunner(store *campaign.Store, pub Publisher) *CampaignRunner {
	return &CampaignRunner{
		store:     store,
		publisher: pub,
	}
}

// Run はアイデアから投稿文を生成し、3枚の画像生成がすべて終わるまで待って最終状態を返します。
// 個々の画像生成の失敗はエラーにならず、そのエントリーは画像なしのまま返ります。
func (r *CampaignRunner) Run(ctx context.Context, brief domain.Brief) (*domain.CampaignState, error) {
	if strings.TrimSpace(brief.Idea) == "" {
		return nil, ErrEmptyIdea
	}
	slog.InfoContext(ctx, "Starting campaign generation", "tone", brief.Tone, "language", brief.Language)
	start := time.Now()

	if err := r.store.SubmitIdea(ctx, brief.Idea, brief.Tone, brief.Language); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		r.store.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	snap := r.store.Snapshot()
	if snap.Campaign == nil {
		return nil, campaign.ErrNoCampaign
	}
	slog.InfoContext(ctx, "Campaign generation finished", "campaign_id", snap.Campaign.ID, "duration", time.Since(start).Round(time.Millisecond))
	return snap.Campaign, nil
}

// RunAndSave は Run の結果を outputDir に書き出します。
func (r *CampaignRunner) RunAndSave(ctx context.Context, brief domain.Brief, outputDir string) (*domain.CampaignState, publisher.PublishResult, error) {
	state, err := r.Run(ctx, brief)
	if err != nil {
		return nil, publisher.PublishResult{}, err
	}
	if r.publisher == nil {
		return state, publisher.PublishResult{}, fmt.Errorf("Publisher が設定されていません")
	}
	result, err := r.publisher.Publish(ctx, state, outputDir)
	if err != nil {
		return state, result, err
	}
	return state, result, nil
}
