package workflow

import (
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/shouni/go-social-kit/pkg/asset"
	"github.com/shouni/go-social-kit/pkg/campaign"
	"github.com/shouni/go-social-kit/pkg/config"
	"github.com/shouni/go-social-kit/pkg/generator"
	"github.com/shouni/go-social-kit/pkg/keygate"
	"github.com/shouni/go-social-kit/pkg/prompts"
	"github.com/shouni/go-social-kit/pkg/publisher"
	"github.com/shouni/go-social-kit/pkg/runner"
	"github.com/shouni/go-social-kit/pkg/server"
)

// Manager は、設定を基にキャンペーン生成に必要なコンポーネント群を構築・管理します。
type Manager struct {
	cfg    config.Config
	keys   *keygate.KeyHolder
	assets *asset.Cache
	alerts *server.AlertHub
	store  *campaign.Store
	writer publisher.OutputWriter
}

// New は、設定を基に新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if err := args.Config.Validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}

	keys := keygate.NewKeyHolder(args.Config.GeminiAPIKey)
	text, images, err := initializeGenerators(args, keys)
	if err != nil {
		return nil, err
	}

	assets := asset.NewCache(args.Config.AssetGrace, config.DefaultCleanupInterval)
	alerts := server.NewAlertHub()
	store, err := campaign.NewStore(text, images,
		campaign.WithImageSink(assets),
		campaign.WithAlerter(alerts),
		campaign.WithRateLimiter(newRateLimiter(args.Config)),
		campaign.WithImageSize(args.Config.ImageSize),
	)
	if err != nil {
		return nil, fmt.Errorf("Store の初期化に失敗しました: %w", err)
	}

	writer := args.Writer
	if writer == nil {
		writer = publisher.LocalWriter{}
	}

	return &Manager{
		cfg:    args.Config,
		keys:   keys,
		assets: assets,
		alerts: alerts,
		store:  store,
		writer: writer,
	}, nil
}

// Store はキャンペーン状態ストアを返します。
func (m *Manager) Store() *campaign.Store {
	return m.store
}

// Keys は API キーの保持先を返します。
func (m *Manager) Keys() *keygate.KeyHolder {
	return m.keys
}

// BuildServer は、キー確認と画像アセット配信を備えた HTTP サーバーを作成します。
func (m *Manager) BuildServer() (Server, error) {
	srv, err := server.New(server.Args{
		Store:  m.store,
		Alerts: m.alerts,
		Gate:   keygate.NewGate(m.keys),
		Keys:   m.keys,
		Assets: m.assets,

		DefaultLanguage: m.cfg.DefaultLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("サーバーの初期化に失敗しました: %w", err)
	}
	return srv, nil
}

// BuildCampaignRunner は、1回分の生成と書き出しを担当する Runner を作成します。
func (m *Manager) BuildCampaignRunner() CampaignRunner {
	pub := publisher.NewCampaignPublisher(m.writer, m.assets)
	return runner.NewCampaignRunner(m.store, pub)
}

// Close は実行中の画像生成をキャンセルし、終了を待ちます。
func (m *Manager) Close() {
	m.store.Close()
}

// initializeGenerators は、引数で生成器が渡されていなければ Gemini クライアントを作成します。
func initializeGenerators(args ManagerArgs, keys generator.KeySource) (generator.TextGenerator, generator.ImageGenerator, error) {
	text, images := args.TextGenerator, args.ImageGenerator
	if text != nil && images != nil {
		return text, images, nil
	}

	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}
	client, err := generator.NewGeminiClient(args.Config, keys, pb, args.HTTPClient)
	if err != nil {
		return nil, nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	if text == nil {
		text = client
	}
	if images == nil {
		images = client
	}
	return text, images, nil
}

// newRateLimiter は画像生成リクエストのレートリミッターを作成します。間隔が 0 の場合は無制限です。
func newRateLimiter(cfg config.Config) *rate.Limiter {
	if cfg.RateInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	slog.Info("Image generation is rate limited", "interval", cfg.RateInterval, "burst", cfg.RateBurst)
	return rate.NewLimiter(rate.Every(cfg.RateInterval), cfg.RateBurst)
}
