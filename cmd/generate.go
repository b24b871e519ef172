package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	internalconfig "github.com/shouni/go-social-kit/internal/config"
	"github.com/shouni/go-social-kit/pkg/config"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/i18n"
	"github.com/shouni/go-social-kit/pkg/publisher"
	"github.com/shouni/go-social-kit/pkg/workflow"
)

// GenerateOptions は generate コマンド固有のフラグなのだ。
type GenerateOptions struct {
	Idea      string
	Tone      string
	Language  string
	OutputDir string
}

var genOpts GenerateOptions

// generateCmd は、1つのアイデアから投稿文と画像を生成してファイルに書き出すのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [idea]",
	Short: "アイデアから3プラットフォーム分の投稿文と画像を生成するのだ。",
	Long: `アイデアを引数、--idea、または標準入力から受け取り、投稿文と画像を生成するのだ。
出力は Markdown（投稿文）と画像ファイルになるのだよ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&genOpts.Idea, "idea", "i", "", "キャンペーンのアイデアなのだ。")
	generateCmd.Flags().StringVarP(&genOpts.Tone, "tone", "t", string(domain.DefaultTone), "語調（Professional / Witty / Urgent / Inspirational / Educational）なのだ。")
	generateCmd.Flags().StringVarP(&genOpts.Language, "language", "L", "", "投稿文の言語（en / zh）なのだ。省略時は設定の default_language を使うのだ。")
	generateCmd.Flags().StringVarP(&genOpts.OutputDir, "output-dir", "o", internalconfig.DefaultOutputDir, "生成物を保存するディレクトリなのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	// Ctrl-C でも manager.Close まで到達させて、実行中の画像生成をキャンセルするのだ
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 環境変数等から基本設定をロードするのだ
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. 入力の決定
	idea, err := resolveIdea(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	brief, err := newBrief(idea, genOpts.Tone, briefLanguage(genOpts.Language, cfg))
	if err != nil {
		return err
	}
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	manager, err := workflow.New(workflow.ManagerArgs{Config: cfg})
	if err != nil {
		return err
	}
	defer manager.Close()

	slog.Info("キャンペーン生成を開始するのだ！",
		"tone", brief.Tone,
		"language", brief.Language,
		"text_model", cfg.GeminiModel,
		"image_model", cfg.ImageModel,
		"image_size", cfg.ImageSize,
		"output", genOpts.OutputDir)

	// 3. 生成と書き出し
	state, result, err := manager.BuildCampaignRunner().RunAndSave(ctx, brief, genOpts.OutputDir)
	if err != nil {
		return fmt.Errorf("キャンペーン生成中にエラーが発生したのだ: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(state, result))
	return nil
}

// resolveIdea は --idea、引数、標準入力の順にアイデアを探すのだ。
func resolveIdea(args []string, stdin io.Reader) (string, error) {
	if genOpts.Idea != "" {
		return genOpts.Idea, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if isStdin() {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		if idea := strings.TrimSpace(string(data)); idea != "" {
			return idea, nil
		}
	}
	return "", fmt.Errorf("アイデア（引数、--idea、または標準入力）を指定してほしいのだ")
}

// briefLanguage は --language が省略されていれば設定の既定言語を返すのだ。
func briefLanguage(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	return string(cfg.DefaultLanguage)
}

// newBrief はフラグの値を検証して生成の入力を組み立てるのだ。
func newBrief(idea, tone, lang string) (domain.Brief, error) {
	t := domain.Tone(tone)
	valid := false
	for _, candidate := range domain.Tones {
		if candidate == t {
			valid = true
			break
		}
	}
	if !valid {
		return domain.Brief{}, fmt.Errorf("語調 %q には対応していないのだ", tone)
	}
	l := domain.Language(lang)
	if !l.Valid() {
		return domain.Brief{}, fmt.Errorf("言語 %q には対応していないのだ", lang)
	}
	return domain.Brief{Idea: idea, Tone: t, Language: l}, nil
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ngStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// renderSummary は生成結果を端末向けに整形するのだ。
func renderSummary(state *domain.CampaignState, result publisher.PublishResult) string {
	t := i18n.For(state.Language)
	lines := []string{titleStyle.Render(t.Title + ": " + state.Idea)}
	for _, p := range domain.Platforms {
		e := state.Entries[p]
		status := ngStyle.Render(t.FailedToLoad)
		if path, ok := result.ImagePaths[p]; ok {
			status = okStyle.Render(path)
		}
		lines = append(lines, fmt.Sprintf("%s [%s] %s", headerStyle.Render(t.Platform(p)), e.AspectRatio, status))
	}
	lines = append(lines, result.MarkdownPath)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
