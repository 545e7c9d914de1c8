package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lzyats/multigame-notify-go/internal/metrics"
	"github.com/lzyats/multigame-notify-go/pkg/dispatch"
	"github.com/lzyats/multigame-notify-go/pkg/model"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

type call struct {
	op    string
	game  int
	move  *model.Move
	trace string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeNotifier) rec(ctx context.Context, op string, g *model.Game, m *model.Move) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, game: g.ID, move: m, trace: dispatch.TraceFrom(ctx)})
}

func (f *fakeNotifier) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeNotifier) CreateGame(ctx context.Context, g *model.Game)   { f.rec(ctx, "create", g, nil) }
func (f *fakeNotifier) PlayerJoin(ctx context.Context, g *model.Game)   { f.rec(ctx, "join", g, nil) }
func (f *fakeNotifier) DestroyGame(ctx context.Context, g *model.Game)  { f.rec(ctx, "destroy", g, nil) }
func (f *fakeNotifier) StartGame(ctx context.Context, g *model.Game)    { f.rec(ctx, "begin", g, nil) }
func (f *fakeNotifier) PlayerChange(ctx context.Context, g *model.Game) { f.rec(ctx, "player_change", g, nil) }
func (f *fakeNotifier) MoveComplete(ctx context.Context, g *model.Game, m *model.Move) {
	f.rec(ctx, "move_complete", g, m)
}
func (f *fakeNotifier) StateChange(ctx context.Context, g *model.Game) { f.rec(ctx, "state_change", g, nil) }
func (f *fakeNotifier) GameChange(ctx context.Context, g *model.Game)  { f.rec(ctx, "game_change", g, nil) }
func (f *fakeNotifier) EndGame(ctx context.Context, g *model.Game)     { f.rec(ctx, "end", g, nil) }

// sliceQueue hands out payloads in order, then cancels the run.
type sliceQueue struct {
	mu       sync.Mutex
	payloads []string
	errs     []error
	cancel   context.CancelFunc
}

func (q *sliceQueue) Pop(ctx context.Context, key string, block time.Duration) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.errs) > 0 {
		err := q.errs[0]
		q.errs = q.errs[1:]
		return "", err
	}
	if len(q.payloads) == 0 {
		q.cancel()
		return "", nil
	}
	p := q.payloads[0]
	q.payloads = q.payloads[1:]
	return p, nil
}

func TestDecodeOccurrence(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"create", `{"kind":"create","game":{"id":1}}`, false},
		{"upper case kind", `{"kind":" END ","game":{"id":1}}`, false},
		{"move", `{"kind":"move_complete","game":{"id":1},"move":{"position":"1,1"}}`, false},
		{"move without move", `{"kind":"move_complete","game":{"id":1}}`, true},
		{"unknown kind", `{"kind":"explode","game":{"id":1}}`, true},
		{"missing game", `{"kind":"create"}`, true},
		{"garbage", `not json`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeOccurrence(tc.payload)
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeOccurrenceInvalidArgument(t *testing.T) {
	_, err := DecodeOccurrence(`{"kind":"nope","game":{"id":1}}`)
	if !errors.Is(err, notify.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestEncodeOccurrence(t *testing.T) {
	s, err := EncodeOccurrence(Occurrence{Kind: KindBegin, Game: &model.Game{ID: 4}, TraceID: "t"})
	if err != nil {
		t.Fatal(err)
	}
	o, err := DecodeOccurrence(s)
	if err != nil {
		t.Fatal(err)
	}
	if o.Kind != KindBegin || o.Game.ID != 4 || o.TraceID != "t" {
		t.Errorf("decoded = %+v", o)
	}
	if _, err := EncodeOccurrence(Occurrence{Kind: KindBegin}); err == nil {
		t.Error("encoding without a game should fail")
	}
}

func TestApplyRoutesEveryKind(t *testing.T) {
	n := &fakeNotifier{}
	w := NewWorker(nil, n, Options{})
	g := &model.Game{ID: 8}
	mv := &model.Move{Position: "0,1"}

	order := []string{
		KindCreate, KindJoin, KindDestroy, KindBegin, KindPlayerChange,
		KindMoveComplete, KindStateChange, KindGameChange, KindEnd,
	}
	for _, k := range order {
		w.Apply(context.Background(), Occurrence{Kind: k, Game: g, Move: mv, TraceID: "tr"})
	}

	calls := n.Calls()
	if len(calls) != len(order) {
		t.Fatalf("got %d calls", len(calls))
	}
	for i, c := range calls {
		if c.op != order[i] || c.game != 8 || c.trace != "tr" {
			t.Errorf("calls[%d] = %+v", i, c)
		}
	}
	if calls[5].move != mv {
		t.Error("move_complete should carry the move")
	}
}

func TestRunConsumesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := &sliceQueue{
		payloads: []string{
			`{"kind":"create","game":{"id":1}}`,
			`broken`,
			`{"kind":"end","game":{"id":1}}`,
		},
		errs:   []error{errors.New("redis down")},
		cancel: cancel,
	}
	n := &fakeNotifier{}
	w := NewWorker(q, n, Options{QueueKey: "q"})
	w.backoff = time.Millisecond

	consumed := testutil.ToFloat64(metrics.Consumed)
	decodeFail := testutil.ToFloat64(metrics.DecodeFail)

	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}

	calls := n.Calls()
	if len(calls) != 2 || calls[0].op != "create" || calls[1].op != "end" {
		t.Errorf("calls = %+v", calls)
	}
	if got := testutil.ToFloat64(metrics.Consumed) - consumed; got != 3 {
		t.Errorf("consumed = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.DecodeFail) - decodeFail; got != 1 {
		t.Errorf("decode failures = %v, want 1", got)
	}
}

func TestRunNotConfigured(t *testing.T) {
	w := NewWorker(nil, nil, Options{})
	if err := w.Run(context.Background()); !errors.Is(err, notify.ErrNotConfigured) {
		t.Errorf("err = %v", err)
	}
}
