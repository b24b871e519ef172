package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPlatform は未定義のプラットフォームが指定された場合のエラーです。
	ErrUnknownPlatform = errors.New("unknown platform")
	// ErrInvalidAspectRatio は未定義のアスペクト比が指定された場合のエラーです。
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
	// ErrInvalidImageSize は未定義の画像品質が指定された場合のエラーです。
	ErrInvalidImageSize = errors.New("invalid image size")
)

// Platform は投稿先のソーシャルネットワークを表します。
type Platform string

const (
	LinkedIn  Platform = "linkedin"
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
)

// Platforms はキャンペーンを構成する3つのプラットフォームです。
// 画像生成の起動順と表示順はこの並びに従います。
var Platforms = []Platform{LinkedIn, Twitter, Instagram}

// ParsePlatform は文字列を Platform に変換します。
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return p, nil
}

// Valid は定義済みのプラットフォームかどうかを返します。
func (p Platform) Valid() bool {
	switch p {
	case LinkedIn, Twitter, Instagram:
		return true
	}
	return false
}

// DefaultAspectRatio はプラットフォームごとの初期アスペクト比を返します。
func (p Platform) DefaultAspectRatio() AspectRatio {
	if p == Instagram {
		return AspectSquare
	}
	return AspectWide
}

// AspectRatio は生成画像の縦横比タグです。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	Aspect4x3       AspectRatio = "4:3"
	Aspect3x4       AspectRatio = "3:4"
	AspectWide      AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	Aspect3x2       AspectRatio = "3:2"
	Aspect2x3       AspectRatio = "2:3"
	AspectUltraWide AspectRatio = "21:9"
)

// AspectRatios は選択可能なアスペクト比の一覧です。
var AspectRatios = []AspectRatio{
	AspectSquare, Aspect4x3, Aspect3x4, AspectWide,
	AspectPortrait, Aspect3x2, Aspect2x3, AspectUltraWide,
}

// ParseAspectRatio は文字列を AspectRatio に変換します。
func ParseAspectRatio(s string) (AspectRatio, error) {
	for _, ar := range AspectRatios {
		if string(ar) == s {
			return ar, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAspectRatio, s)
}

// ImageSize は画像生成の品質設定です。
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"

	DefaultImageSize = ImageSize1K
)

// ImageSizes は選択可能な画像品質の一覧です。
var ImageSizes = []ImageSize{ImageSize1K, ImageSize2K, ImageSize4K}

// ParseImageSize は文字列を ImageSize に変換します。
func ParseImageSize(s string) (ImageSize, error) {
	for _, size := range ImageSizes {
		if string(size) == s {
			return size, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidImageSize, s)
}

// Tone は投稿文の語調です。
type Tone string

const (
	ToneProfessional  Tone = "Professional"
	ToneWitty         Tone = "Witty"
	ToneUrgent        Tone = "Urgent"
	ToneInspirational Tone = "Inspirational"
	ToneEducational   Tone = "Educational"

	DefaultTone = ToneProfessional
)

// Tones は選択可能な語調の一覧です。
var Tones = []Tone{ToneProfessional, ToneWitty, ToneUrgent, ToneInspirational, ToneEducational}

// Language は投稿文の出力言語です。画像プロンプトは常に英語で生成されます。
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"

	DefaultLanguage = English
)

// Languages はサポートしている言語の一覧です。
var Languages = []Language{English, Chinese}

// Valid はサポート対象の言語かどうかを返します。
func (l Language) Valid() bool {
	return l == English || l == Chinese
}

// PromptName はプロンプト中で出力言語を指示するための名称です。
func (l Language) PromptName() string {
	if l == Chinese {
		return "Simplified Chinese"
	}
	return "English"
}
