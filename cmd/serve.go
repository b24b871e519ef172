package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-social-kit/pkg/workflow"
)

// serveCmd は、ブラウザで操作するキャンペーン編集画面を起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "キャンペーン編集画面の HTTP サーバーを起動するのだ。",
	Long: `ブラウザからアイデアを入力し、投稿文の編集や画像の再生成ができる画面を提供するのだ。
API キーが未設定の場合は、画面からキーを入力できるのだよ。`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVarP(&opts.ListenAddr, "listen", "l", "", "待ち受けアドレス（例: :8080）なのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	manager, err := workflow.New(workflow.ManagerArgs{Config: cfg})
	if err != nil {
		return err
	}
	defer manager.Close()

	srv, err := manager.BuildServer()
	if err != nil {
		return err
	}

	slog.Info("キャンペーン編集画面を起動するのだ！",
		"addr", cfg.ListenAddr,
		"text_model", cfg.GeminiModel,
		"image_model", cfg.ImageModel,
		"api_key_configured", cfg.GeminiAPIKey != "")

	if err := srv.Run(ctx, cfg.ListenAddr); err != nil {
		return fmt.Errorf("サーバー実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
