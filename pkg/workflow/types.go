package workflow

import (
	"context"
	"net/http"

	"github.com/shouni/go-social-kit/pkg/config"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
	"github.com/shouni/go-social-kit/pkg/publisher"
)

// ManagerArgs は Manager の初期化に必要な引数です。
type ManagerArgs struct {
	Config config.Config
	// HTTPClient が nil の場合は genai のデフォルトを使用します。
	HTTPClient *http.Client
	// TextGenerator と ImageGenerator が nil の場合は Gemini クライアントを使用します。
	TextGenerator  generator.TextGenerator
	ImageGenerator generator.ImageGenerator
	// Writer が nil の場合はローカルファイルシステムに書き込みます。
	Writer publisher.OutputWriter
}

// Server は HTTP 画面を提供するサーバーです。
type Server interface {
	Run(ctx context.Context, addr string) error
}

// CampaignRunner は1回分のキャンペーン生成を実行し、結果を書き出します。
type CampaignRunner interface {
	Run(ctx context.Context, brief domain.Brief) (*domain.CampaignState, error)
	RunAndSave(ctx context.Context, brief domain.Brief, outputDir string) (*domain.CampaignState, publisher.PublishResult, error)
}
