package cmd

import (
	"fmt"
	"log/slog"
	"os"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"

	internalconfig "github.com/shouni/go-social-kit/internal/config"
	"github.com/shouni/go-social-kit/pkg/config"
	"github.com/shouni/go-social-kit/pkg/domain"
)

const appName = "social-gen"

// AppOptions はすべてのサブコマンドで共有するフラグの値なのだ。
// --config と --verbose は clibase.Flags が持っているのだ。
type AppOptions struct {
	AIModel    string
	ImageModel string
	ImageSize  string
	ListenAddr string
}

var opts AppOptions

// newRootCmd は clibase のルートコマンドにこのツールの説明とサブコマンドを載せるのだ。
func newRootCmd() *cobra.Command {
	rootCmd := clibase.NewRootCmd(appName, addAppFlags, preRunAppE)
	rootCmd.Short = "アイデアから SNS 向けの投稿文と画像をまとめて生成するのだ。"
	rootCmd.Long = `1つのアイデアから LinkedIn、Twitter/X、Instagram 向けの投稿文と画像プロンプトを生成し、
プラットフォームごとの画像を並行して生成するツールなのだ。`
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(serveCmd, generateCmd)
	return rootCmd
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "テキスト生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "画像生成に使う Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageSize, "image-size", "", "画像品質（1K / 2K / 4K）なのだ。")
}

// preRunAppE は、コマンド実行前にロガーと .env の準備をするのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if clibase.Flags.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return internalconfig.LoadDotEnv()
}

// loadConfig は設定ファイルと環境変数を読み込み、フラグで上書きするのだ。
// 優先順位は フラグ > 環境変数 > 設定ファイル > 既定値 なのだ。
func loadConfig() (config.Config, error) {
	cfg, err := internalconfig.LoadConfig(clibase.Flags.ConfigFile)
	if err != nil {
		return cfg, err
	}
	if opts.AIModel != "" {
		cfg.GeminiModel = opts.AIModel
	}
	if opts.ImageModel != "" {
		cfg.ImageModel = opts.ImageModel
	}
	if opts.ImageSize != "" {
		size, err := domain.ParseImageSize(opts.ImageSize)
		if err != nil {
			return cfg, err
		}
		cfg.ImageSize = size
	}
	if opts.ListenAddr != "" {
		cfg.ListenAddr = opts.ListenAddr
	}
	return cfg, nil
}

// requireAPIKey は API キーが設定されているかを確認するのだ。
// Gemini APIを利用するため、generate ではキーの存在チェックは欠かせないのだ！
func requireAPIKey(cfg config.Config) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("エラー: 環境変数 API_KEY または GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
