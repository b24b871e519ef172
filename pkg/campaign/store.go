package campaign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/shouni/go-social-kit/pkg/asset"
	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
)

var (
	// ErrNoCampaign はキャンペーンがまだ生成されていない場合のエラーです。
	ErrNoCampaign = errors.New("no campaign has been generated")
	// ErrStaleCampaign は操作中にキャンペーンが置き換えられた場合のエラーです。
	ErrStaleCampaign = errors.New("campaign was replaced")
	// ErrDraftInProgress はテキスト生成中に再度アイデアが送信された場合のエラーです。
	ErrDraftInProgress = errors.New("campaign draft is already in progress")
	// ErrTextGeneration はテキスト生成の失敗を表します。キャンペーンは作成されません。
	ErrTextGeneration = errors.New("failed to generate campaign text")
)

// ImageSink は生成された画像を保存し、表示用の参照（URL）を返します。
type ImageSink interface {
	Put(img generator.ImageResponse) (string, error)
}

// ImageReleaser は ImageSink のうち、使われなくなった参照を解放できるものです。
// 画像が差し替えられた時、キャンペーンが置き換えられた時、破棄された完了結果に対して呼ばれます。
type ImageReleaser interface {
	Release(ref string)
}

// ImageSinkFunc は関数を ImageSink として扱うためのアダプタです。
type ImageSinkFunc func(img generator.ImageResponse) (string, error)

// Put は f(img) を呼び出します。
func (f ImageSinkFunc) Put(img generator.ImageResponse) (string, error) { return f(img) }

// Alerter はユーザーに見える失敗通知を届けます。テキスト生成の失敗にだけ使われます。
type Alerter interface {
	Alert(ctx context.Context, err error)
}

// AlerterFunc は関数を Alerter として扱うためのアダプタです。
type AlerterFunc func(ctx context.Context, err error)

// Alert は f(ctx, err) を呼び出します。
func (f AlerterFunc) Alert(ctx context.Context, err error) { f(ctx, err) }

// Snapshot はある時点の Store の状態です。Campaign は nil の場合があります。
type Snapshot struct {
	Campaign  *domain.CampaignState `json:"campaign"`
	Drafting  bool                  `json:"drafting"`
	ImageSize domain.ImageSize      `json:"imageSize"`
}

// Store はキャンペーン状態を保持し、プラットフォームごとの画像生成を独立して並行に管理します。
// すべての更新は Reduce を通して最新の状態に対して適用されます。
type Store struct {
	text    generator.TextGenerator
	images  generator.ImageGenerator
	sink    ImageSink
	alerter Alerter
	limiter *rate.Limiter
	newID   func() string
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     *domain.CampaignState
	drafting  bool
	imageSize domain.ImageSize
	seq       uint64

	subs *subscribers
}

// Option は Store の任意設定です。
type Option func(*Store)

// WithImageSink は画像の保存先を指定します。既定では data URI に変換します。
func WithImageSink(sink ImageSink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithAlerter はテキスト生成失敗の通知先を指定します。既定ではログに出力します。
func WithAlerter(a Alerter) Option {
	return func(s *Store) { s.alerter = a }
}

// WithRateLimiter は画像生成リクエストのレート制限を指定します。既定では無制限です。
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *Store) { s.limiter = l }
}

// WithImageSize は画像品質の初期値を指定します。
func WithImageSize(size domain.ImageSize) Option {
	return func(s *Store) { s.imageSize = size }
}

// WithIDGenerator はキャンペーンIDの採番方法を指定します。
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithClock は現在時刻の取得方法を指定します。
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore は依存関係を注入して Store を初期化します。
func NewStore(text generator.TextGenerator, images generator.ImageGenerator, opts ...Option) (*Store, error) {
	if text == nil {
		return nil, fmt.Errorf("TextGenerator は必須です")
	}
	if images == nil {
		return nil, fmt.Errorf("ImageGenerator は必須です")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		text:      text,
		images:    images,
		sink:      asset.DataURISink{},
		alerter:   AlerterFunc(logAlert),
		limiter:   rate.NewLimiter(rate.Inf, 0),
		newID:     uuid.NewString,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		imageSize: domain.DefaultImageSize,
		subs:      newSubscribers(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitIdea はアイデアから投稿文を生成してキャンペーンを作り直し、
// 3つのプラットフォームの画像生成を互いに待たずに開始します。
// アイデアが空の場合は何もしません。テキスト生成に失敗した場合、状態は変更されず
// Alerter に一度だけ通知されます。
func (s *Store) SubmitIdea(ctx context.Context, idea string, tone domain.Tone, lang domain.Language) error {
	if strings.TrimSpace(idea) == "" {
		return nil
	}
	brief := domain.Brief{Idea: idea, Tone: tone, Language: lang}.Normalize()

	s.mu.Lock()
	if s.drafting {
		s.mu.Unlock()
		return ErrDraftInProgress
	}
	s.drafting = true
	s.broadcastLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.drafting = false
		s.broadcastLocked()
		s.mu.Unlock()
	}()

	draft, err := s.text.GenerateText(ctx, brief)
	if err == nil {
		err = draft.Validate()
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrTextGeneration, err)
		s.alerter.Alert(ctx, err)
		return err
	}

	state := domain.NewCampaignState(s.newID(), brief, draft, s.now())
	s.dispatch(CampaignCreated{State: state})
	slog.InfoContext(ctx, "Campaign drafted", "campaign_id", state.ID, "tone", brief.Tone, "language", brief.Language)

	for _, p := range domain.Platforms {
		e := state.Entries[p]
		if err := s.requestImage(state.ID, p, e.ImagePrompt, e.AspectRatio); err != nil {
			slog.WarnContext(ctx, "Image generation was not started", "platform", p, "error", err)
		}
	}
	return nil
}

// RegenerateImage は指定プラットフォームの画像生成を開始し、完了を待たずに戻ります。
// prompt が空の場合はエントリーの画像プロンプトを使用します。
// 失敗してもそのプラットフォームの生成中フラグが下りるだけで、既存の画像は残ります。
func (s *Store) RegenerateImage(p domain.Platform, prompt string, aspectRatio domain.AspectRatio) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, p)
	}
	if _, err := domain.ParseAspectRatio(string(aspectRatio)); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return ErrNoCampaign
	}
	campaignID := s.state.ID
	if prompt == "" {
		prompt = s.state.Entries[p].ImagePrompt
	}
	s.mu.Unlock()

	return s.requestImage(campaignID, p, prompt, aspectRatio)
}

// UpdateText は指定プラットフォームの投稿文だけを置き換えます。検証は行いません。
func (s *Store) UpdateText(p domain.Platform, text string) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ErrNoCampaign
	}
	s.applyLocked(TextUpdated{Platform: p, Text: text})
	return nil
}

// SetImageSize は以降の画像生成で使用する画像品質を設定します。
func (s *Store) SetImageSize(size domain.ImageSize) error {
	if _, err := domain.ParseImageSize(string(size)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageSize == size {
		return nil
	}
	s.imageSize = size
	s.broadcastLocked()
	return nil
}

// Snapshot は現在の状態の複製を返します。
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe は状態が変わるたびにスナップショットを受け取るチャネルと、購読を解除する関数を返します。
// 受信が遅れた場合、途中のスナップショットは読み飛ばされ最新のものだけが届きます。
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := s.subs.add()
	var once sync.Once
	return ch, func() {
		once.Do(func() { s.subs.remove(ch) })
	}
}

// Wait は実行中のすべての画像生成が終わるまで待ちます。
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close は実行中の画像生成をキャンセルし、終了を待ちます。
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
}

// requestImage は楽観的に生成中フラグとアスペクト比を記録し、画像生成をゴルーチンで開始します。
func (s *Store) requestImage(campaignID string, p domain.Platform, prompt string, aspectRatio domain.AspectRatio) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if !s.applyLocked(ImageRequested{CampaignID: campaignID, Platform: p, AspectRatio: aspectRatio, Seq: seq}) {
		s.mu.Unlock()
		return ErrStaleCampaign
	}
	req := generator.ImageRequest{Prompt: prompt, AspectRatio: aspectRatio, ImageSize: s.imageSize}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.runImage(campaignID, p, seq, req)
	return nil
}

func (s *Store) runImage(campaignID string, p domain.Platform, seq uint64, req generator.ImageRequest) {
	defer s.wg.Done()

	logger := slog.With("campaign_id", campaignID, "platform", p, "seq", seq, "aspect_ratio", req.AspectRatio)
	startTime := time.Now()

	ref, err := s.generateImage(req)
	if err != nil {
		logger.Error("Image generation failed", "error", err)
		s.dispatch(ImageFailed{CampaignID: campaignID, Platform: p, Seq: seq})
		return
	}

	logger.Info("Image generation completed", "duration", time.Since(startTime).Round(time.Millisecond))
	if !s.dispatch(ImageSucceeded{CampaignID: campaignID, Platform: p, Seq: seq, ImageURL: ref}) {
		logger.Debug("Discarded superseded image")
		s.release(ref)
	}
}

func (s *Store) generateImage(req generator.ImageRequest) (string, error) {
	if err := s.limiter.Wait(s.ctx); err != nil {
		return "", fmt.Errorf("リミッター待機中にエラーが発生しました: %w", err)
	}
	resp, err := s.images.GenerateImage(s.ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", generator.ErrNoImage
	}
	ref, err := s.sink.Put(*resp)
	if err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました: %w", err)
	}
	return ref, nil
}

func (s *Store) dispatch(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ev)
}

// applyLocked はイベントを最新の状態に適用し、変化があれば購読者に通知します。
func (s *Store) applyLocked(ev Event) bool {
	prev := s.state
	next := Reduce(prev, ev)
	if next == prev {
		return false
	}
	s.state = next
	s.releaseReplaced(prev, next)
	s.broadcastLocked()
	return true
}

// releaseReplaced は prev にあって next にない画像の参照を解放します。
func (s *Store) releaseReplaced(prev, next *domain.CampaignState) {
	for _, p := range domain.Platforms {
		old, ok := prev.Entry(p)
		if !ok || !old.HasImage() {
			continue
		}
		if cur, ok := next.Entry(p); ok && cur.ImageURL == old.ImageURL {
			continue
		}
		s.release(old.ImageURL)
	}
}

func (s *Store) release(ref string) {
	if r, ok := s.sink.(ImageReleaser); ok {
		r.Release(ref)
	}
}

func (s *Store) broadcastLocked() {
	s.subs.broadcast(s.snapshotLocked())
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Campaign:  s.state.Clone(),
		Drafting:  s.drafting,
		ImageSize: s.imageSize,
	}
}

func logAlert(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Campaign generation failed", "error", err)
}
