package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-social-kit/pkg/config"
	"github.com/shouni/go-social-kit/pkg/domain"
)

// DefaultOutputDir は generate コマンドの既定の出力先なのだ。
const DefaultOutputDir = "output/campaign"

// LoadDotEnv はカレントディレクトリの .env を環境変数に読み込むのだ。
// ファイルがなくてもエラーにはしないのだ。既存の環境変数は上書きしないのだ。
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(".env の読み込みに失敗しました: %w", err)
	}
	slog.Debug("Loaded .env file")
	return nil
}

// LoadConfig は設定ファイル（任意）と環境変数から設定を組み立てるのだ！
// 優先順位は 環境変数 > 設定ファイル > 既定値 なのだ。
func LoadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return cfg, err
	}

	cfg.GeminiAPIKey = envutil.GetEnv("API_KEY", envutil.GetEnv("GEMINI_API_KEY", cfg.GeminiAPIKey))
	cfg.GeminiModel = envutil.GetEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.ImageModel = envutil.GetEnv("IMAGE_GEMINI_MODEL", cfg.ImageModel)
	cfg.ImageSize = domain.ImageSize(envutil.GetEnv("IMAGE_SIZE", string(cfg.ImageSize)))
	cfg.ListenAddr = envutil.GetEnv("LISTEN_ADDR", cfg.ListenAddr)

	if v := envutil.GetEnv("RATE_INTERVAL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("RATE_INTERVAL が不正です (%q): %w", v, err)
		}
		cfg.RateInterval = d
	}

	return cfg, cfg.Validate()
}
