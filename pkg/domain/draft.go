package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrInvalidDraft はAI応答が期待した下書きの形に一致しない場合のエラーです。
var ErrInvalidDraft = errors.New("invalid campaign draft")

var (
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")
	draftValidator = newDraftValidator()
)

// newDraftValidator は空白だけの文字列も未入力として扱う notblank を登録したバリデータを返します。
func newDraftValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("notblank の登録に失敗しました: %v", err))
	}
	return v
}

// DraftPost はテキスト生成が返す1プラットフォーム分の投稿文と画像プロンプトです。
type DraftPost struct {
	Text        string `json:"text" validate:"notblank"`
	ImagePrompt string `json:"imagePrompt" validate:"notblank"`
}

// CampaignDraft はテキスト生成の結果で、3つのプラットフォームすべてを含みます。
type CampaignDraft struct {
	LinkedIn  *DraftPost `json:"linkedin" validate:"required"`
	Twitter   *DraftPost `json:"twitter" validate:"required"`
	Instagram *DraftPost `json:"instagram" validate:"required"`
}

// Post は指定プラットフォームの投稿を返します。
func (d CampaignDraft) Post(p Platform) DraftPost {
	var post *DraftPost
	switch p {
	case LinkedIn:
		post = d.LinkedIn
	case Twitter:
		post = d.Twitter
	case Instagram:
		post = d.Instagram
	}
	if post == nil {
		return DraftPost{}
	}
	return *post
}

// Validate は3つのプラットフォームすべてに投稿文と画像プロンプトがあることを検証します。
func (d CampaignDraft) Validate() error {
	if err := draftValidator.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

// DecodeCampaignDraft はAI応答のテキストから JSON を取り出し、型付きの下書きに変換します。
// コードフェンスや前後の説明文が含まれていても、最も外側の JSON オブジェクトを対象にします。
func DecodeCampaignDraft(raw string) (CampaignDraft, error) {
	rawJSON := extractJSON(raw)
	if rawJSON == "" {
		return CampaignDraft{}, fmt.Errorf("%w: empty response", ErrInvalidDraft)
	}

	var draft CampaignDraft
	if err := json.Unmarshal([]byte(rawJSON), &draft); err != nil {
		return CampaignDraft{}, fmt.Errorf("%w: AI応答の JSON 解析に失敗しました (応答抜粋: %q): %v", ErrInvalidDraft, truncateString(raw, 200), err)
	}
	if err := draft.Validate(); err != nil {
		return CampaignDraft{}, err
	}
	return draft, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
