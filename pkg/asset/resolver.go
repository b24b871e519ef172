package asset

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-social-kit/pkg/generator"
)

const (
	// RoutePrefix は画像アセットを配信するパスの接頭辞です。
	RoutePrefix = "/assets/"
	// DefaultExtension は MIME タイプから拡張子を決定できない場合に使う拡張子です。
	DefaultExtension = ".png"
)

// preferredExtensions は mime.ExtensionsByType より優先する拡張子です。
var preferredExtensions = map[string]string{"image/png": ".png", "image/jpeg": ".jpg", "image/webp": ".webp"}

// Cache は生成した画像をメモリ上に保持し、参照パスを払い出します。
// 保存した画像は Release されるまで期限切れになりません。Release 後は grace の間だけ取得できます。
type Cache struct {
	items *cache.Cache
	grace time.Duration
}

// NewCache は Cache を初期化します。grace が 0 以下の場合、Release した画像はすぐに削除されます。
func NewCache(grace, cleanupInterval time.Duration) *Cache {
	return &Cache{
		items: cache.New(cache.NoExpiration, cleanupInterval),
		grace: grace,
	}
}

// Put は画像を保存し、配信用の参照パス（例: /assets/<uuid>.png）を返します。
func (c *Cache) Put(img generator.ImageResponse) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("空の画像データは保存できません")
	}
	id := uuid.NewString() + Extension(img.MimeType)
	c.items.Set(id, img, cache.NoExpiration)
	return RoutePrefix + id, nil
}

// Get は参照パスまたは ID から画像を取得します。
func (c *Cache) Get(ref string) (generator.ImageResponse, bool) {
	v, ok := c.items.Get(refID(ref))
	if !ok {
		return generator.ImageResponse{}, false
	}
	img, ok := v.(generator.ImageResponse)
	return img, ok
}

// Release は参照されなくなった画像に期限を設定します。
// 表示中の画面や書き出し処理が古い参照を読めるよう、grace の間は残します。
func (c *Cache) Release(ref string) {
	id := refID(ref)
	if c.grace <= 0 {
		c.items.Delete(id)
		return
	}
	if v, ok := c.items.Get(id); ok {
		c.items.Set(id, v, c.grace)
	}
}

func refID(ref string) string {
	return path.Base(strings.TrimPrefix(ref, RoutePrefix))
}

// Count は保持している画像の数を返します。
func (c *Cache) Count() int {
	return c.items.ItemCount()
}

// DataURISink は画像を保存せず、data URI をそのまま参照として返します。
type DataURISink struct{}

// Put は画像を data URI に変換します。
func (DataURISink) Put(img generator.ImageResponse) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("空の画像データは変換できません")
	}
	return img.DataURI(), nil
}

// Extension は MIME タイプに対応する拡張子を返します。
func Extension(mimeType string) string {
	if ext, ok := preferredExtensions[mimeType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return DefaultExtension
}
