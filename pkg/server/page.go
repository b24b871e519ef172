package server

import (
	"embed"
	"html/template"
	"strings"

	"github.com/shouni/go-social-kit/pkg/asset"
	"github.com/shouni/go-social-kit/pkg/campaign"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"imageURL": imageURL,
}

// imageURL は画像の参照をテンプレートに埋め込める URL に変換します。
// アセットのパスと画像の data URI 以外は空文字列になります。
func imageURL(ref string) template.URL {
	if strings.HasPrefix(ref, asset.RoutePrefix) || strings.HasPrefix(ref, "data:image/") {
		return template.URL(ref)
	}
	return ""
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type card struct {
	Platform     domain.Platform
	Title        string
	Entry        domain.PlatformEntry
	AspectRatios []option
}

type indexPage struct {
	Lang       domain.Language
	T          *i18n.Strings
	Drafting   bool
	CampaignID string
	Idea       string
	Tones      []option
	ImageSizes []option
	Cards      []card
}

type keyPage struct {
	Lang  domain.Language
	T     *i18n.Strings
	Error string
}

func newKeyPage(lang domain.Language, errMsg string) keyPage {
	return keyPage{Lang: lang, T: i18n.For(lang), Error: errMsg}
}

func newIndexPage(lang domain.Language, snap campaign.Snapshot) indexPage {
	t := i18n.For(lang)
	page := indexPage{
		Lang:     lang,
		T:        t,
		Drafting: snap.Drafting,
	}

	selectedTone := domain.DefaultTone
	if snap.Campaign != nil {
		page.CampaignID = snap.Campaign.ID
		page.Idea = snap.Campaign.Idea
		selectedTone = snap.Campaign.Tone
	}
	for _, tone := range domain.Tones {
		page.Tones = append(page.Tones, option{Value: string(tone), Label: t.Tone(tone), Selected: tone == selectedTone})
	}
	for _, size := range domain.ImageSizes {
		page.ImageSizes = append(page.ImageSizes, option{Value: string(size), Label: t.ImageSize(size), Selected: size == snap.ImageSize})
	}

	for _, p := range domain.Platforms {
		e, ok := snap.Campaign.Entry(p)
		if !ok {
			continue
		}
		c := card{Platform: p, Title: t.Platform(p), Entry: e}
		for _, ar := range domain.AspectRatios {
			c.AspectRatios = append(c.AspectRatios, option{Value: string(ar), Label: t.AspectRatio(ar), Selected: ar == e.AspectRatio})
		}
		page.Cards = append(page.Cards, c)
	}
	return page
}
