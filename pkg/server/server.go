package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/shouni/go-social-kit/pkg/asset"
	"github.com/shouni/go-social-kit/pkg/campaign"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
	"github.com/shouni/go-social-kit/pkg/keygate"
)

const (
	eventsPath      = "/api/events"
	shutdownTimeout = 10 * time.Second
)

// CampaignStore はサーバーが利用するキャンペーン状態の操作です。
type CampaignStore interface {
	SubmitIdea(ctx context.Context, idea string, tone domain.Tone, lang domain.Language) error
	RegenerateImage(p domain.Platform, prompt string, aspectRatio domain.AspectRatio) error
	UpdateText(p domain.Platform, text string) error
	SetImageSize(size domain.ImageSize) error
	Snapshot() campaign.Snapshot
	Subscribe() (<-chan campaign.Snapshot, func())
}

// AssetSource は生成済み画像の取得元です。
type AssetSource interface {
	Get(ref string) (generator.ImageResponse, bool)
}

// KeyOfferer は画面から入力された API キーを受け取ります。
type KeyOfferer interface {
	Offer(key string)
}

// Args は Server の構築に必要な依存関係です。
type Args struct {
	Store  CampaignStore
	Alerts *AlertHub
	// Gate が nil の場合、キーの確認を行わずにメイン画面を表示します。
	Gate *keygate.Gate
	// Keys が nil の場合、キー入力フォームは無効です。
	Keys KeyOfferer
	// Assets が nil の場合、/assets/ は 404 を返します。
	Assets AssetSource
	// DefaultLanguage はブラウザの言語設定から表示言語を決められない場合に使います。
	DefaultLanguage domain.Language
}

// Server はキャンペーン編集画面と JSON API を提供する HTTP サーバーです。
type Server struct {
	store  CampaignStore
	alerts *AlertHub
	gate   *keygate.Gate
	keys   KeyOfferer
	assets AssetSource
	engine *gin.Engine

	defaultLang domain.Language

	closing   chan struct{}
	closeOnce sync.Once
}

// New は Server を初期化し、ルーティングを登録します。
func New(args Args) (*Server, error) {
	if args.Store == nil {
		return nil, fmt.Errorf("CampaignStore は必須です")
	}
	if args.Alerts == nil {
		args.Alerts = NewAlertHub()
	}
	if args.Gate == nil {
		args.Gate = keygate.NewGate(nil)
	}
	if !args.DefaultLanguage.Valid() {
		args.DefaultLanguage = domain.DefaultLanguage
	}

	tmpl, err := template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの解析に失敗しました: %w", err)
	}

	s := &Server{
		store:   args.Store,
		alerts:  args.Alerts,
		gate:    args.Gate,
		keys:    args.Keys,
		assets:  args.Assets,
		closing: make(chan struct{}),

		defaultLang: args.DefaultLanguage,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog())
	engine.SetHTMLTemplate(tmpl)
	s.engine = engine
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/key", s.handleKey)
	s.engine.GET(asset.RoutePrefix+":id", s.handleAsset)

	api := s.engine.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{eventsPath})))
	{
		api.GET("/state", s.handleState)
		api.POST("/campaign", s.handleSubmit)
		api.PUT("/platforms/:platform/text", s.handleUpdateText)
		api.POST("/platforms/:platform/image", s.handleRegenerate)
		api.PUT("/settings/image-size", s.handleImageSize)
		api.GET("/events", s.handleEvents)
	}
}

// Handler は登録済みのルーティングを持つ http.Handler を返します。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run は addr で待ち受け、ctx がキャンセルされると SSE 接続を閉じてから停止します。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP サーバーの起動に失敗しました: %w", err)
	case <-ctx.Done():
	}

	s.shutdownStreams()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP サーバーの停止に失敗しました: %w", err)
	}
	return nil
}

func (s *Server) shutdownStreams() {
	s.closeOnce.Do(func() { close(s.closing) })
}
