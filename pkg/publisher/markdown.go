package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/i18n"
)

// BuildMarkdown はキャンペーンの投稿文と画像ファイルへの相対パスを1つの Markdown にまとめます。
// 画像がないプラットフォームには FailedToLoad の文言を出力します。
func BuildMarkdown(state *domain.CampaignState, imageFiles map[domain.Platform]string) string {
	t := i18n.For(state.Language)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", t.Title))
	sb.WriteString(fmt.Sprintf("> %s\n\n", strings.TrimSpace(state.Idea)))
	sb.WriteString(fmt.Sprintf("- %s: %s\n\n", t.ToneLabel, t.Tone(state.Tone)))

	for _, p := range domain.Platforms {
		e, ok := state.Entry(p)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", t.Platform(p)))
		sb.WriteString(strings.TrimSpace(e.Text))
		sb.WriteString("\n\n")

		if file, ok := imageFiles[p]; ok {
			sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", t.Platform(p), file))
		} else {
			sb.WriteString(fmt.Sprintf("_%s_\n\n", t.FailedToLoad))
		}
		sb.WriteString(fmt.Sprintf("- aspect_ratio: %s\n", e.AspectRatio))
		sb.WriteString(fmt.Sprintf("- image_prompt: %s\n\n", strings.TrimSpace(e.ImagePrompt)))
	}
	return sb.String()
}
