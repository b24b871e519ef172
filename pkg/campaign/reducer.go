package campaign

import (
	"github.com/shouni/go-social-kit/pkg/domain"
)

// Event はキャンペーン状態に対する1つの変更です。
type Event interface {
	apply(state *domain.CampaignState) *domain.CampaignState
}

// Reduce は現在の状態にイベントを適用した次の状態を返します。
// 入力の状態は変更しません。変化がない場合は同じポインタを返します。
func Reduce(state *domain.CampaignState, ev Event) *domain.CampaignState {
	return ev.apply(state)
}

// CampaignCreated はテキスト生成の成功により状態全体を置き換えます。
type CampaignCreated struct {
	State *domain.CampaignState
}

func (ev CampaignCreated) apply(_ *domain.CampaignState) *domain.CampaignState {
	return ev.State
}

// TextUpdated はユーザーによる投稿文の編集です。
type TextUpdated struct {
	Platform domain.Platform
	Text     string
}

func (ev TextUpdated) apply(state *domain.CampaignState) *domain.CampaignState {
	e, ok := state.Entry(ev.Platform)
	if !ok {
		return state
	}
	e.Text = ev.Text
	return state.WithEntry(ev.Platform, e)
}

// ImageRequested は画像生成リクエストの発行です（楽観的更新）。
type ImageRequested struct {
	CampaignID  string
	Platform    domain.Platform
	AspectRatio domain.AspectRatio
	Seq         uint64
}

func (ev ImageRequested) apply(state *domain.CampaignState) *domain.CampaignState {
	e, ok := current(state, ev.CampaignID, ev.Platform)
	if !ok || ev.Seq <= e.ImageRequestSeq {
		return state
	}
	e.IsGeneratingImage = true
	e.AspectRatio = ev.AspectRatio
	e.ImageRequestSeq = ev.Seq
	return state.WithEntry(ev.Platform, e)
}

// ImageSucceeded は画像生成の成功です。
type ImageSucceeded struct {
	CampaignID string
	Platform   domain.Platform
	Seq        uint64
	ImageURL   string
}

func (ev ImageSucceeded) apply(state *domain.CampaignState) *domain.CampaignState {
	e, ok := latest(state, ev.CampaignID, ev.Platform, ev.Seq)
	if !ok {
		return state
	}
	e.ImageURL = ev.ImageURL
	e.IsGeneratingImage = false
	return state.WithEntry(ev.Platform, e)
}

// ImageFailed は画像生成の失敗です。既存の画像はそのまま残します。
type ImageFailed struct {
	CampaignID string
	Platform   domain.Platform
	Seq        uint64
}

func (ev ImageFailed) apply(state *domain.CampaignState) *domain.CampaignState {
	e, ok := latest(state, ev.CampaignID, ev.Platform, ev.Seq)
	if !ok {
		return state
	}
	e.IsGeneratingImage = false
	return state.WithEntry(ev.Platform, e)
}

// current は campaignID が現在の状態と一致する場合にだけエントリーを返します。
func current(state *domain.CampaignState, campaignID string, p domain.Platform) (domain.PlatformEntry, bool) {
	if state == nil || state.ID != campaignID {
		return domain.PlatformEntry{}, false
	}
	return state.Entry(p)
}

// latest は seq がそのエントリーで最後に発行されたリクエストの場合にだけエントリーを返します。
func latest(state *domain.CampaignState, campaignID string, p domain.Platform, seq uint64) (domain.PlatformEntry, bool) {
	e, ok := current(state, campaignID, p)
	if !ok || e.ImageRequestSeq != seq {
		return domain.PlatformEntry{}, false
	}
	return e, true
}
