package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lzyats/multigame-notify-go/internal/metrics"
	"github.com/lzyats/multigame-notify-go/pkg/dispatch"
	"github.com/lzyats/multigame-notify-go/pkg/model"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

// Notifier is the facade the worker drives; *dispatch.Dispatcher satisfies it.
type Notifier interface {
	CreateGame(ctx context.Context, g *model.Game)
	PlayerJoin(ctx context.Context, g *model.Game)
	DestroyGame(ctx context.Context, g *model.Game)
	StartGame(ctx context.Context, g *model.Game)
	PlayerChange(ctx context.Context, g *model.Game)
	MoveComplete(ctx context.Context, g *model.Game, m *model.Move)
	StateChange(ctx context.Context, g *model.Game)
	GameChange(ctx context.Context, g *model.Game)
	EndGame(ctx context.Context, g *model.Game)
}

// Queue is satisfied by the redis store.
type Queue interface {
	Pop(ctx context.Context, key string, block time.Duration) (string, error)
}

type Options struct {
	QueueKey  string
	Block     time.Duration
	OpTimeout time.Duration
	Log       *zap.Logger
}

type Worker struct {
	q   Queue
	n   Notifier
	log *zap.Logger

	queueKey  string
	block     time.Duration
	opTimeout time.Duration
	backoff   time.Duration
}

func NewWorker(q Queue, n Notifier, opt Options) *Worker {
	if opt.Block <= 0 {
		opt.Block = 5 * time.Second
	}
	if opt.OpTimeout <= 0 {
		opt.OpTimeout = 3 * time.Second
	}
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	return &Worker{
		q:         q,
		n:         n,
		log:       opt.Log,
		queueKey:  opt.QueueKey,
		block:     opt.Block,
		opTimeout: opt.OpTimeout,
		backoff:   500 * time.Millisecond,
	}
}

// Run pops occurrences until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	if w.q == nil || w.n == nil {
		return notify.ErrNotConfigured
	}
	w.log.Info("worker started", zap.String("queue", w.queueKey), zap.Duration("block", w.block))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		payload, err := w.q.Pop(ctx, w.queueKey, w.block)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warn("queue pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.backoff):
			}
			continue
		}
		if payload == "" {
			continue
		}
		metrics.Consumed.Inc()

		o, err := DecodeOccurrence(payload)
		if err != nil {
			metrics.DecodeFail.Inc()
			w.log.Warn("occurrence decode failed", zap.String("payload", payload), zap.Error(err))
			continue
		}

		opCtx, cancel := context.WithTimeout(ctx, w.opTimeout)
		w.Apply(opCtx, o)
		cancel()
	}
}

// Apply drives the facade call matching o.Kind.
func (w *Worker) Apply(ctx context.Context, o Occurrence) {
	if o.TraceID != "" {
		ctx = dispatch.WithTrace(ctx, o.TraceID)
	}
	g := o.Game
	switch o.Kind {
	case KindCreate:
		w.n.CreateGame(ctx, g)
	case KindJoin:
		w.n.PlayerJoin(ctx, g)
	case KindDestroy:
		w.n.DestroyGame(ctx, g)
	case KindBegin:
		w.n.StartGame(ctx, g)
	case KindPlayerChange:
		w.n.PlayerChange(ctx, g)
	case KindMoveComplete:
		w.n.MoveComplete(ctx, g, o.Move)
	case KindStateChange:
		w.n.StateChange(ctx, g)
	case KindGameChange:
		w.n.GameChange(ctx, g)
	case KindEnd:
		w.n.EndGame(ctx, g)
	default:
		w.log.Warn("occurrence kind ignored", zap.String("kind", o.Kind))
	}
}
