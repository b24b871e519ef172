package generator

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// ErrNoImage は画像生成の応答に画像データが含まれていなかった場合のエラーです。
var ErrNoImage = errors.New("no image generated")

// ImageRequest は単一の画像生成要求です。
type ImageRequest struct {
	Prompt      string
	AspectRatio domain.AspectRatio
	ImageSize   domain.ImageSize
}

// ImageResponse は生成された画像データとその MIME タイプです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// DataURI は画像を data URI 形式の文字列に変換します。
func (r ImageResponse) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", r.MimeType, base64.StdEncoding.EncodeToString(r.Data))
}

// StaticKey は固定の API キーを返す KeySource です。
type StaticKey string

// APIKey は保持しているキーを返します。
func (k StaticKey) APIKey() string { return string(k) }
