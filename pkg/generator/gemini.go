package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-social-kit/pkg/config"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/prompts"

	"google.golang.org/genai"
)

// GeminiClient は Gemini API を用いて TextGenerator と ImageGenerator の両方を実装します。
// API キーは呼び出しごとに KeySource から取得し、その都度クライアントを生成します。
type GeminiClient struct {
	cfg           config.Config
	keys          KeySource
	promptBuilder prompts.CampaignPromptBuilder
	httpClient    *http.Client
}

// NewGeminiClient は依存関係を注入して GeminiClient を初期化します。
// httpClient が nil の場合は genai のデフォルトを使用します。
func NewGeminiClient(cfg config.Config, keys KeySource, pb prompts.CampaignPromptBuilder, httpClient *http.Client) (*GeminiClient, error) {
	if keys == nil {
		return nil, fmt.Errorf("KeySource は必須です")
	}
	if pb == nil {
		return nil, fmt.Errorf("CampaignPromptBuilder は必須です")
	}
	return &GeminiClient{
		cfg:           cfg,
		keys:          keys,
		promptBuilder: pb,
		httpClient:    httpClient,
	}, nil
}

// GenerateText は構造化出力（JSON スキーマ）を指定して3プラットフォーム分の下書きを生成します。
func (c *GeminiClient) GenerateText(ctx context.Context, brief domain.Brief) (domain.CampaignDraft, error) {
	prompt, err := c.promptBuilder.Build(prompts.NewTemplateData(brief))
	if err != nil {
		return domain.CampaignDraft{}, fmt.Errorf("プロンプト生成に失敗: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.newClient(ctx)
	if err != nil {
		return domain.CampaignDraft{}, err
	}

	slog.InfoContext(ctx, "Calling Gemini text model", "model", c.cfg.GeminiModel, "language", brief.Language)
	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.cfg.GeminiModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.cfg.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   campaignSchema(),
	})
	if err != nil {
		return domain.CampaignDraft{}, fmt.Errorf("テキスト生成に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "Gemini text generation completed", "duration", time.Since(start).Round(time.Millisecond))

	return domain.DecodeCampaignDraft(resp.Text())
}

// GenerateImage はアスペクト比と画像品質を指定して1枚の画像を生成します。
func (c *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, c.cfg.ImageModel, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(req.AspectRatio),
			ImageSize:   string(req.ImageSize),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成に失敗しました: %w", err)
	}
	return extractImage(resp)
}

func (c *GeminiClient) newClient(ctx context.Context) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.keys.APIKey(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

func (c *GeminiClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

// extractImage は最初の候補に含まれる最初のインラインデータを画像として返します。
func extractImage(resp *genai.GenerateContentResponse) (*ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoImage
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return &ImageResponse{
			Data:     part.InlineData.Data,
			MimeType: part.InlineData.MIMEType,
		}, nil
	}
	return nil, ErrNoImage
}

// campaignSchema は3プラットフォームそれぞれに text と imagePrompt を要求するレスポンススキーマです。
func campaignSchema() *genai.Schema {
	post := func() *genai.Schema {
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"text":        {Type: genai.TypeString},
				"imagePrompt": {Type: genai.TypeString},
			},
			Required: []string{"text", "imagePrompt"},
		}
	}

	properties := make(map[string]*genai.Schema, len(domain.Platforms))
	required := make([]string, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		properties[string(p)] = post()
		required = append(required, string(p))
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}
