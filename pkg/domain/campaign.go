package domain

import (
	"time"
)

// PlatformEntry は1つのプラットフォームに対する投稿文と画像の状態を保持します。
type PlatformEntry struct {
	Text              string      `json:"text"`
	ImagePrompt       string      `json:"imagePrompt"`
	ImageURL          string      `json:"imageUrl,omitempty"`
	IsGeneratingImage bool        `json:"isGeneratingImage"`
	AspectRatio       AspectRatio `json:"aspectRatio"`

	// ImageRequestSeq は最後に発行した画像生成リクエストの連番です。
	// これより古い連番の完了通知は破棄されます。
	ImageRequestSeq uint64 `json:"-"`
}

// HasImage は一度でも画像生成に成功しているかを返します。
func (e PlatformEntry) HasImage() bool {
	return e.ImageURL != ""
}

// CampaignState は1回のテキスト生成から作られるキャンペーン全体の状態です。
// Entries は常に3つのプラットフォームすべてを保持します。
type CampaignState struct {
	ID        string                     `json:"id"`
	Idea      string                     `json:"idea"`
	Tone      Tone                       `json:"tone"`
	Language  Language                   `json:"language"`
	CreatedAt time.Time                  `json:"createdAt"`
	Entries   map[Platform]PlatformEntry `json:"entries"`
}

// NewCampaignState は生成された下書きからキャンペーン状態を組み立てます。
// すべてのエントリーは画像生成中として初期化され、既定のアスペクト比が設定されます。
func NewCampaignState(id string, brief Brief, draft CampaignDraft, now time.Time) *CampaignState {
	entries := make(map[Platform]PlatformEntry, len(Platforms))
	for _, p := range Platforms {
		post := draft.Post(p)
		entries[p] = PlatformEntry{
			Text:              post.Text,
			ImagePrompt:       post.ImagePrompt,
			IsGeneratingImage: true,
			AspectRatio:       p.DefaultAspectRatio(),
		}
	}
	return &CampaignState{
		ID:        id,
		Idea:      brief.Idea,
		Tone:      brief.Tone,
		Language:  brief.Language,
		CreatedAt: now,
		Entries:   entries,
	}
}

// Entry は指定プラットフォームのエントリーを返します。
func (c *CampaignState) Entry(p Platform) (PlatformEntry, bool) {
	if c == nil {
		return PlatformEntry{}, false
	}
	e, ok := c.Entries[p]
	return e, ok
}

// WithEntry は1つのエントリーだけを差し替えた新しい状態を返します。レシーバーは変更しません。
func (c *CampaignState) WithEntry(p Platform, e PlatformEntry) *CampaignState {
	next := c.Clone()
	next.Entries[p] = e
	return next
}

// Clone はエントリーのマップを含めて複製します。
func (c *CampaignState) Clone() *CampaignState {
	if c == nil {
		return nil
	}
	next := *c
	next.Entries = make(map[Platform]PlatformEntry, len(c.Entries))
	for p, e := range c.Entries {
		next.Entries[p] = e
	}
	return &next
}

// Brief はキャンペーン生成の入力です。
type Brief struct {
	Idea     string   `json:"idea"`
	Tone     Tone     `json:"tone"`
	Language Language `json:"language"`
}

// Normalize は未指定の語調と言語に既定値を補います。
func (b Brief) Normalize() Brief {
	if b.Tone == "" {
		b.Tone = DefaultTone
	}
	if !b.Language.Valid() {
		b.Language = DefaultLanguage
	}
	return b
}
