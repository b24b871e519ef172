package i18n

import (
	"golang.org/x/text/language"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// supported の並びは matcher のタグと一致させます。先頭が既定値です。
var supported = []domain.Language{domain.English, domain.Chinese}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// Match は Accept-Language ヘッダーなどの言語指定から対応言語を選びます。
// 解析できない場合や一致しない場合は domain.DefaultLanguage を返します。
func Match(preferences ...string) domain.Language {
	return MatchOr(domain.DefaultLanguage, preferences...)
}

// MatchOr は Match と同じですが、一致しない場合に fallback を返します。
func MatchOr(fallback domain.Language, preferences ...string) domain.Language {
	if !fallback.Valid() {
		fallback = domain.DefaultLanguage
	}
	var tags []language.Tag
	for _, p := range preferences {
		if p == "" {
			continue
		}
		t, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, t...)
	}
	if len(tags) == 0 {
		return fallback
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}
