package domain

import (
	"errors"
	"testing"
)

func TestDecodeCampaignDraft(t *testing.T) {
	t.Run("コードフェンス付きの応答から3プラットフォームを取り出せること", func(t *testing.T) {
		raw := "以下が結果です。\n```json\n" + `{
			"linkedin": {"text": "A", "imagePrompt": "B"},
			"twitter": {"text": "C", "imagePrompt": "D"},
			"instagram": {"text": "E", "imagePrompt": "F"}
		}` + "\n```"

		draft, err := DecodeCampaignDraft(raw)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got := draft.Post(LinkedIn); got.Text != "A" || got.ImagePrompt != "B" {
			t.Errorf("linkedin の内容が違います: %+v", got)
		}
		if got := draft.Post(Instagram); got.Text != "E" || got.ImagePrompt != "F" {
			t.Errorf("instagram の内容が違います: %+v", got)
		}
	})

	t.Run("前後に説明文があっても最も外側のオブジェクトを解析すること", func(t *testing.T) {
		raw := `Sure! {"linkedin":{"text":"a","imagePrompt":"b"},"twitter":{"text":"c","imagePrompt":"d"},"instagram":{"text":"e","imagePrompt":"f"}} done`
		if _, err := DecodeCampaignDraft(raw); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
	})

	tests := []struct {
		name string
		raw  string
	}{
		{"空の応答", ""},
		{"不正なJSON", "{ invalid json }"},
		{"プラットフォームが欠けている", `{"linkedin":{"text":"a","imagePrompt":"b"},"twitter":{"text":"c","imagePrompt":"d"}}`},
		{"画像プロンプトが空", `{"linkedin":{"text":"a","imagePrompt":""},"twitter":{"text":"c","imagePrompt":"d"},"instagram":{"text":"e","imagePrompt":"f"}}`},
		{"本文が空白だけ", `{"linkedin":{"text":"a","imagePrompt":"b"},"twitter":{"text":"  \n\t","imagePrompt":"d"},"instagram":{"text":"e","imagePrompt":"f"}}`},
		{"画像プロンプトが空白だけ", `{"linkedin":{"text":"a","imagePrompt":"b"},"twitter":{"text":"c","imagePrompt":"d"},"instagram":{"text":"e","imagePrompt":"   "}}`},
		{"本文が欠けている", `{"linkedin":{"imagePrompt":"b"},"twitter":{"text":"c","imagePrompt":"d"},"instagram":{"text":"e","imagePrompt":"f"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name+"の場合は ErrInvalidDraft を返すこと", func(t *testing.T) {
			_, err := DecodeCampaignDraft(tt.raw)
			if !errors.Is(err, ErrInvalidDraft) {
				t.Errorf("ErrInvalidDraft を期待しましたが %v でした", err)
			}
		})
	}
}
