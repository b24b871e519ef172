package prompts

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrEmptyIdea はアイデアが空のままプロンプトを組み立てようとした場合のエラーです。
var ErrEmptyIdea = errors.New("campaign idea is empty")

// TextPromptBuilder はキャンペーン用の埋め込みテンプレートからプロンプトを組み立てます。
type TextPromptBuilder struct {
	tmpl *template.Template
}

// NewTextPromptBuilder は埋め込まれた campaign.md を解析して TextPromptBuilder を初期化します。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	return newTextPromptBuilder(campaignTemplate)
}

func newTextPromptBuilder(content string) (*TextPromptBuilder, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("キャンペーン用プロンプトテンプレートが空です")
	}
	tmpl, err := template.New("campaign").Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("キャンペーン用プロンプトの解析に失敗: %w", err)
	}
	return &TextPromptBuilder{tmpl: tmpl}, nil
}

// Build はアイデアを埋め込んだプロンプトを返します。アイデアが空白だけの場合は ErrEmptyIdea です。
// 語調・言語・文字数が未設定の場合は既定値で補います。
func (b *TextPromptBuilder) Build(data TemplateData) (string, error) {
	data.Idea = strings.TrimSpace(data.Idea)
	if data.Idea == "" {
		return "", ErrEmptyIdea
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data.withDefaults()); err != nil {
		return "", fmt.Errorf("キャンペーン用プロンプトの実行に失敗しました: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
