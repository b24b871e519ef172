package generator

import (
	"context"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// TextGenerator は、アイデアから3プラットフォーム分の投稿文と画像プロンプトを生成する契約です。
// 応答が期待した形に変換できない場合はエラーを返します。
type TextGenerator interface {
	GenerateText(ctx context.Context, brief domain.Brief) (domain.CampaignDraft, error)
}

// ImageGenerator は、画像プロンプトから1枚の画像を生成する契約です。
// 応答に画像データが含まれない場合は ErrNoImage を返します。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
}

// KeySource は呼び出しごとに使用する API キーを提供します。
type KeySource interface {
	APIKey() string
}
