package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/shouni/go-social-kit/pkg/domain"

	"gopkg.in/yaml.v3"
)

// デフォルト値の定義
const (
	DefaultGeminiModel     = "gemini-3.1-pro-preview"
	DefaultImageModel      = "gemini-3-pro-image-preview"
	DefaultTemperature     = float32(0.7)
	DefaultRateBurst       = 3
	DefaultAssetGrace      = 10 * time.Minute
	DefaultRequestTimeout  = 5 * time.Minute
	DefaultListenAddr      = ":8080"
	DefaultCleanupInterval = 15 * time.Minute
)

// Config は Go Social Kit の各コンポーネントを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiAPIKey string  `yaml:"-"`
	GeminiModel  string  `yaml:"gemini_model"`
	ImageModel   string  `yaml:"image_model"`
	Temperature  float32 `yaml:"temperature"`

	// --- Generation Settings ---
	ImageSize       domain.ImageSize `yaml:"image_size"`
	DefaultLanguage domain.Language  `yaml:"default_language"`
	// RateInterval が 0 の場合、画像生成リクエストは制限されません。
	RateInterval time.Duration `yaml:"rate_interval"`
	RateBurst    int           `yaml:"rate_burst"`

	// --- Asset Settings ---
	// AssetGrace は差し替えられた画像を配信し続ける期間です。表示中の画像は期限切れになりません。
	AssetGrace time.Duration `yaml:"asset_grace"`

	// --- Server Settings ---
	ListenAddr string `yaml:"listen_addr"`

	// --- Timeout ---
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:     DefaultGeminiModel,
		ImageModel:      DefaultImageModel,
		Temperature:     DefaultTemperature,
		ImageSize:       domain.DefaultImageSize,
		DefaultLanguage: domain.DefaultLanguage,
		RateBurst:       DefaultRateBurst,
		AssetGrace:      DefaultAssetGrace,
		ListenAddr:      DefaultListenAddr,
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// LoadFile は YAML ファイルを読み込み、デフォルト設定に上書きした Config を返します。
// path が空の場合はデフォルト設定をそのまま返します。
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("設定ファイルの読み込みに失敗しました (path: %s): %w", path, err)
	}
	return Parse(data, cfg)
}

// Parse は YAML データを base に上書きします。未知のキーはエラーになります。
func Parse(data []byte, base Config) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&base); err != nil {
		return base, fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}
	return base, base.Validate()
}

// Validate は列挙値と数値の範囲を検証します。
func (c Config) Validate() error {
	if _, err := domain.ParseImageSize(string(c.ImageSize)); err != nil {
		return fmt.Errorf("image_size が不正です: %w", err)
	}
	if !c.DefaultLanguage.Valid() {
		return fmt.Errorf("default_language が不正です: %q", c.DefaultLanguage)
	}
	if c.RateInterval < 0 {
		return fmt.Errorf("rate_interval は 0 以上である必要があります: %s", c.RateInterval)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("rate_burst は 1 以上である必要があります: %d", c.RateBurst)
	}
	return nil
}
