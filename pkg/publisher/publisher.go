package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-social-kit/pkg/asset"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
)

const (
	defaultCampaignName = "campaign.md"
	defaultImageDirName = "images"
)

// ImageSource は画像の参照から画像データを取り出します。
type ImageSource interface {
	Get(ref string) (generator.ImageResponse, bool)
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string
	ImagePaths   map[domain.Platform]string
}

// CampaignPublisher はキャンペーンの投稿文と画像をファイルとして書き出します。
type CampaignPublisher struct {
	writer OutputWriter
	images ImageSource
}

// NewCampaignPublisher は依存関係を注入して CampaignPublisher を初期化します。
func NewCampaignPublisher(writer OutputWriter, images ImageSource) *CampaignPublisher {
	return &CampaignPublisher{
		writer: writer,
		images: images,
	}
}

// Publish は画像を並行して保存した後、それらを参照する Markdown を書き出します。
// 画像のないプラットフォームはスキップされ、Markdown には読み込み失敗として記載されます。
func (p *CampaignPublisher) Publish(ctx context.Context, state *domain.CampaignState, outputDir string) (PublishResult, error) {
	result := PublishResult{ImagePaths: make(map[domain.Platform]string)}
	if state == nil {
		return result, fmt.Errorf("パブリッシュするキャンペーンがありません")
	}

	markdownPath, err := ResolveOutputPath(outputDir, defaultCampaignName)
	if err != nil {
		return result, err
	}
	result.MarkdownPath = markdownPath

	images := NewAssetManager(p.writer, filepath.Join(outputDir, defaultImageDirName))
	var mu sync.Mutex
	relative := make(map[domain.Platform]string)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, platform := range domain.Platforms {
		e, ok := state.Entry(platform)
		if !ok || !e.HasImage() {
			slog.WarnContext(ctx, "No image to publish", "platform", platform)
			continue
		}
		img, ok := p.images.Get(e.ImageURL)
		if !ok {
			slog.WarnContext(ctx, "Image is no longer available", "platform", platform, "ref", e.ImageURL)
			continue
		}

		eg.Go(func() error {
			name := string(platform) + asset.Extension(img.MimeType)
			saved, err := images.Save(egCtx, name, img.Data)
			if err != nil {
				return fmt.Errorf("%s の画像の書き込みに失敗しました: %w", platform, err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.ImagePaths[platform] = saved
			relative[platform] = path.Join(defaultImageDirName, name)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return result, err
	}

	content := BuildMarkdown(state, relative)
	if err := p.writer.Write(ctx, markdownPath, []byte(content)); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Campaign published", "markdown", markdownPath, "images", len(result.ImagePaths))
	return result, nil
}
