package prompts

import (
	_ "embed"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// TwitterCharacterLimit は短文投稿の目安文字数です。ローカルでは強制しません。
const TwitterCharacterLimit = 280

//go:embed campaign.md
var campaignTemplate string

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
type TemplateData struct {
	Idea         string
	Tone         domain.Tone
	LanguageName string
	TwitterLimit int
}

// NewTemplateData は Brief からテンプレート用のデータを組み立てます。
func NewTemplateData(brief domain.Brief) TemplateData {
	brief = brief.Normalize()
	return TemplateData{
		Idea:         brief.Idea,
		Tone:         brief.Tone,
		LanguageName: brief.Language.PromptName(),
		TwitterLimit: TwitterCharacterLimit,
	}
}

// withDefaults は未設定の語調・言語・文字数に既定値を補います。
func (d TemplateData) withDefaults() TemplateData {
	if d.Tone == "" {
		d.Tone = domain.DefaultTone
	}
	if d.LanguageName == "" {
		d.LanguageName = domain.DefaultLanguage.PromptName()
	}
	if d.TwitterLimit <= 0 {
		d.TwitterLimit = TwitterCharacterLimit
	}
	return d
}
