package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-social-kit/pkg/domain"
)

func TestTextPromptBuilder_Build(t *testing.T) {
	pb, err := NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}

	t.Run("アイデア・語調・言語がプロンプトに埋め込まれること", func(t *testing.T) {
		data := NewTemplateData(domain.Brief{Idea: "Launch X", Tone: domain.ToneWitty, Language: domain.Chinese})
		got, err := pb.Build(data)
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		for _, want := range []string{`"Launch X"`, "Witty", "Simplified Chinese", "under 280 characters", "MUST ALWAYS be in English"} {
			if !strings.Contains(got, want) {
				t.Errorf("プロンプトに %q が含まれていません", want)
			}
		}
	})

	t.Run("言語未指定の場合は英語になること", func(t *testing.T) {
		got, err := pb.Build(NewTemplateData(domain.Brief{Idea: "x"}))
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !strings.Contains(got, "The output language MUST be: English.") {
			t.Error("既定の出力言語が英語になっていません")
		}
	})

	t.Run("未設定の項目は既定値で補われること", func(t *testing.T) {
		got, err := pb.Build(TemplateData{Idea: "  Launch X  "})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		for _, want := range []string{`"Launch X"`, "Professional", "English", "under 280 characters"} {
			if !strings.Contains(got, want) {
				t.Errorf("プロンプトに %q が含まれていません", want)
			}
		}
	})

	t.Run("空白だけのアイデアは ErrEmptyIdea になること", func(t *testing.T) {
		for _, idea := range []string{"", " \n\t "} {
			if _, err := pb.Build(TemplateData{Idea: idea}); !errors.Is(err, ErrEmptyIdea) {
				t.Errorf("%q: ErrEmptyIdea を期待しましたが %v でした", idea, err)
			}
		}
	})
}

func TestNewTextPromptBuilder(t *testing.T) {
	t.Run("空のテンプレートはエラーになること", func(t *testing.T) {
		if _, err := newTextPromptBuilder("  "); err == nil {
			t.Error("エラーが返りませんでした")
		}
	})

	t.Run("解析できないテンプレートはエラーになること", func(t *testing.T) {
		if _, err := newTextPromptBuilder("{{.Idea"); err == nil {
			t.Error("エラーが返りませんでした")
		}
	})

	t.Run("存在しない項目を参照するテンプレートは実行時にエラーになること", func(t *testing.T) {
		pb, err := newTextPromptBuilder("{{.Unknown}}")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := pb.Build(TemplateData{Idea: "x"}); err == nil {
			t.Error("エラーが返りませんでした")
		}
	})
}
