package i18n

import (
	"github.com/shouni/go-social-kit/pkg/domain"
)

// Strings は1言語分の画面表示文字列です。
type Strings struct {
	Title             string
	IdeaLabel         string
	IdeaPlaceholder   string
	ToneLabel         string
	Tones             map[domain.Tone]string
	ImageQualityLabel string
	ImageQuality      map[domain.ImageSize]string
	GenerateBtn       string
	GeneratingBtn     string
	EmptyState        string
	PostCopy          string
	GeneratedImage    string
	GeneratingImage   string
	FailedToLoad      string
	RegenerateImage   string
	AspectRatios      map[domain.AspectRatio]string
	AlertFailed       string
	Language          string
	Platforms         map[domain.Platform]string

	KeyRequiredTitle string
	KeyRequiredBody  string
	KeyBillingLink   string
	KeySelectBtn     string
	KeyPlaceholder   string
}

var english = Strings{
	Title:           "SocialGen",
	IdeaLabel:       "What's your idea?",
	IdeaPlaceholder: "e.g., Launching our new AI-powered analytics tool...",
	ToneLabel:       "Tone",
	Tones: map[domain.Tone]string{
		domain.ToneProfessional:  "Professional",
		domain.ToneWitty:         "Witty",
		domain.ToneUrgent:        "Urgent",
		domain.ToneInspirational: "Inspirational",
		domain.ToneEducational:   "Educational",
	},
	ImageQualityLabel: "Image Quality",
	ImageQuality: map[domain.ImageSize]string{
		domain.ImageSize1K: "1K (Standard)",
		domain.ImageSize2K: "2K (High)",
		domain.ImageSize4K: "4K (Ultra)",
	},
	GenerateBtn:     "Generate Content",
	GeneratingBtn:   "Drafting Content...",
	EmptyState:      "Enter an idea to generate your social media campaign.",
	PostCopy:        "Post Copy",
	GeneratedImage:  "Generated Image",
	GeneratingImage: "Generating...",
	FailedToLoad:    "Failed to load",
	RegenerateImage: "Regenerate Image",
	AspectRatios: map[domain.AspectRatio]string{
		domain.AspectSquare:    "1:1 (Square)",
		domain.Aspect4x3:       "4:3",
		domain.Aspect3x4:       "3:4",
		domain.AspectWide:      "16:9 (Landscape)",
		domain.AspectPortrait:  "9:16 (Portrait)",
		domain.Aspect3x2:       "3:2",
		domain.Aspect2x3:       "2:3",
		domain.AspectUltraWide: "21:9",
	},
	AlertFailed: "Failed to generate content. Please try again.",
	Language:    "Language",
	Platforms: map[domain.Platform]string{
		domain.LinkedIn:  "LinkedIn",
		domain.Twitter:   "Twitter / X",
		domain.Instagram: "Instagram",
	},

	KeyRequiredTitle: "API Key Required",
	KeyRequiredBody:  "This application uses high-quality image generation models which require a paid Google Cloud API key.",
	KeyBillingLink:   "Learn more about billing",
	KeySelectBtn:     "Select API Key",
	KeyPlaceholder:   "Paste your Gemini API key",
}

var chinese = Strings{
	Title:           "社交生成器",
	IdeaLabel:       "你的想法是什么？",
	IdeaPlaceholder: "例如：发布我们全新的人工智能分析工具...",
	ToneLabel:       "语气",
	Tones: map[domain.Tone]string{
		domain.ToneProfessional:  "专业",
		domain.ToneWitty:         "风趣",
		domain.ToneUrgent:        "紧迫",
		domain.ToneInspirational: "鼓舞人心",
		domain.ToneEducational:   "教育性",
	},
	ImageQualityLabel: "图片质量",
	ImageQuality: map[domain.ImageSize]string{
		domain.ImageSize1K: "1K (标准)",
		domain.ImageSize2K: "2K (高清)",
		domain.ImageSize4K: "4K (超清)",
	},
	GenerateBtn:     "生成内容",
	GeneratingBtn:   "正在起草内容...",
	EmptyState:      "输入一个想法来生成你的社交媒体活动。",
	PostCopy:        "帖子文案",
	GeneratedImage:  "生成的图片",
	GeneratingImage: "生成中...",
	FailedToLoad:    "加载失败",
	RegenerateImage: "重新生成图片",
	AspectRatios: map[domain.AspectRatio]string{
		domain.AspectSquare:    "1:1 (正方形)",
		domain.Aspect4x3:       "4:3",
		domain.Aspect3x4:       "3:4",
		domain.AspectWide:      "16:9 (横向)",
		domain.AspectPortrait:  "9:16 (纵向)",
		domain.Aspect3x2:       "3:2",
		domain.Aspect2x3:       "2:3",
		domain.AspectUltraWide: "21:9",
	},
	AlertFailed: "生成内容失败，请重试。",
	Language:    "语言",
	Platforms: map[domain.Platform]string{
		domain.LinkedIn:  "领英 (LinkedIn)",
		domain.Twitter:   "推特 (Twitter / X)",
		domain.Instagram: "照片墙 (Instagram)",
	},

	KeyRequiredTitle: "需要 API 密钥",
	KeyRequiredBody:  "本应用使用高质量的图像生成模型，需要付费的 Google Cloud API 密钥。",
	KeyBillingLink:   "了解计费详情",
	KeySelectBtn:     "选择 API 密钥",
	KeyPlaceholder:   "粘贴你的 Gemini API 密钥",
}

var tables = map[domain.Language]*Strings{
	domain.English: &english,
	domain.Chinese: &chinese,
}

// For は指定言語の文字列表を返します。未対応の言語の場合は英語を返します。
func For(lang domain.Language) *Strings {
	if s, ok := tables[lang]; ok {
		return s
	}
	return tables[domain.DefaultLanguage]
}

// Tone は語調の表示名を返します。未定義の場合は値そのものを返します。
func (s *Strings) Tone(t domain.Tone) string {
	if v, ok := s.Tones[t]; ok {
		return v
	}
	return string(t)
}

// Platform はプラットフォームの表示名を返します。
func (s *Strings) Platform(p domain.Platform) string {
	if v, ok := s.Platforms[p]; ok {
		return v
	}
	return string(p)
}

// AspectRatio はアスペクト比の表示名を返します。
func (s *Strings) AspectRatio(ar domain.AspectRatio) string {
	if v, ok := s.AspectRatios[ar]; ok {
		return v
	}
	return string(ar)
}

// ImageSize は画像品質の表示名を返します。
func (s *Strings) ImageSize(size domain.ImageSize) string {
	if v, ok := s.ImageQuality[size]; ok {
		return v
	}
	return string(size)
}
