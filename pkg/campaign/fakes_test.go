package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shouni/go-social-kit/pkg/domain"
	"github.com/shouni/go-social-kit/pkg/generator"
)

const waitTimeout = 2 * time.Second

var errFake = errors.New("fake failure")

func testDraft() domain.CampaignDraft {
	return domain.CampaignDraft{
		LinkedIn:  &domain.DraftPost{Text: "A", ImagePrompt: "B"},
		Twitter:   &domain.DraftPost{Text: "C", ImagePrompt: "D"},
		Instagram: &domain.DraftPost{Text: "E", ImagePrompt: "F"},
	}
}

// fakeText は固定の下書きかエラーを返すテキスト生成です。block が非 nil の場合は閉じられるまで待ちます。
type fakeText struct {
	draft domain.CampaignDraft
	err   error
	block chan struct{}
	calls atomic.Int32
	last  atomic.Value
}

func (f *fakeText) GenerateText(ctx context.Context, brief domain.Brief) (domain.CampaignDraft, error) {
	f.calls.Add(1)
	f.last.Store(brief)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return domain.CampaignDraft{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.CampaignDraft{}, f.err
	}
	return f.draft, nil
}

type imageResult struct {
	resp *generator.ImageResponse
	err  error
}

// imageCall は発行された1回の画像生成リクエストです。テスト側で任意の順序で解決します。
type imageCall struct {
	req    generator.ImageRequest
	result chan imageResult
}

func (c *imageCall) succeed(data string) {
	c.result <- imageResult{resp: &generator.ImageResponse{Data: []byte(data), MimeType: "image/png"}}
}

func (c *imageCall) fail() {
	c.result <- imageResult{err: errFake}
}

// fakeImages は呼び出しをチャネルに流し、テストから解決されるまでブロックする画像生成です。
type fakeImages struct {
	calls chan *imageCall
}

func newFakeImages() *fakeImages {
	return &fakeImages{calls: make(chan *imageCall, 16)}
}

func (f *fakeImages) GenerateImage(ctx context.Context, req generator.ImageRequest) (*generator.ImageResponse, error) {
	c := &imageCall{req: req, result: make(chan imageResult, 1)}
	f.calls <- c
	select {
	case r := <-c.result:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeImages) next(t *testing.T) *imageCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(waitTimeout):
		t.Fatal("画像生成リクエストが届きませんでした")
		return nil
	}
}

// nextN は n 件のリクエストを受け取り、プロンプトをキーにしたマップで返します。
func (f *fakeImages) nextN(t *testing.T, n int) map[string]*imageCall {
	t.Helper()
	calls := make(map[string]*imageCall, n)
	for i := 0; i < n; i++ {
		c := f.next(t)
		calls[c.req.Prompt] = c
	}
	return calls
}

// recordingAlerter は通知された回数を数えます。
type recordingAlerter struct {
	mu   sync.Mutex
	errs []error
}

func (a *recordingAlerter) Alert(_ context.Context, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, err)
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errs)
}

// refSink は画像データをそのまま "img:<data>" という参照に変換します。
var refSink = ImageSinkFunc(func(img generator.ImageResponse) (string, error) {
	return "img:" + string(img.Data), nil
})

func sequentialIDs() func() string {
	var n atomic.Int32
	return func() string {
		return fmt.Sprintf("c-%d", n.Add(1))
	}
}

type fixture struct {
	store   *Store
	text    *fakeText
	images  *fakeImages
	alerter *recordingAlerter
}

// releasingSink は refSink と同じ参照を返し、解放された参照を記録します。
type releasingSink struct {
	mu       sync.Mutex
	released []string
}

func (s *releasingSink) Put(img generator.ImageResponse) (string, error) {
	return refSink(img)
}

func (s *releasingSink) Release(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, ref)
}

func (s *releasingSink) refs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.released...)
}

// newFixture はテスト用の Store を作成します。opts は既定の設定の後に適用されます。
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		text:    &fakeText{draft: testDraft()},
		images:  newFakeImages(),
		alerter: &recordingAlerter{},
	}
	defaults := []Option{
		WithImageSink(refSink),
		WithAlerter(f.alerter),
		WithIDGenerator(sequentialIDs()),
	}
	store, err := NewStore(f.text, f.images, append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("Store の初期化に失敗しました: %v", err)
	}
	t.Cleanup(store.Close)
	f.store = store
	return f
}

// waitFor は条件を満たすスナップショットになるまで待ちます。
func waitFor(t *testing.T, s *Store, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		snap := s.Snapshot()
		if cond(snap) {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("条件を満たす状態になりませんでした: %+v", s.Snapshot())
	return Snapshot{}
}

func entry(t *testing.T, snap Snapshot, p domain.Platform) domain.PlatformEntry {
	t.Helper()
	e, ok := snap.Campaign.Entry(p)
	if !ok {
		t.Fatalf("%s のエントリーがありません", p)
	}
	return e
}

// settledCampaign はキャンペーンを作成し、3枚の画像生成をすべて成功させた状態にします。
func settledCampaign(t *testing.T, f *fixture) Snapshot {
	t.Helper()
	if err := f.store.SubmitIdea(context.Background(), "Launch X", domain.ToneWitty, domain.English); err != nil {
		t.Fatalf("SubmitIdea が失敗しました: %v", err)
	}
	for prompt, c := range f.images.nextN(t, 3) {
		c.succeed(prompt + "-1")
	}
	f.store.Wait()
	return f.store.Snapshot()
}
