package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/lzyats/multigame-notify-go/internal/metrics"
	"github.com/lzyats/multigame-notify-go/pkg/event"
	"github.com/lzyats/multigame-notify-go/pkg/model"
)

// Each facade call shares one TRACE_ID across the messages it sends. The
// game and notification messages of one call are independent dispatches
// with no ordering between them.

// CreateGame sends GAME/CREATE with the game and NOTIFICATION/CREATE with
// its summary.
func (d *Dispatcher) CreateGame(ctx context.Context, g *model.Game) {
	if !d.valid(g, "create") {
		return
	}
	ctx = ensureTrace(ctx)
	d.Dispatch(ctx, g.ID, event.Game(event.GameCreate), g)
	d.Dispatch(ctx, g.ID, event.Notification(event.NotificationCreate), d.summarize(*g))
}

// PlayerJoin is sent for every player joining after the creator.
func (d *Dispatcher) PlayerJoin(ctx context.Context, g *model.Game) {
	if !d.valid(g, "join") {
		return
	}
	ctx = ensureTrace(ctx)
	d.Dispatch(ctx, g.ID, event.Game(event.GamePlayerJoin), g)
	d.Dispatch(ctx, g.ID, event.Notification(event.NotificationJoin), d.summarize(*g))
}

func (d *Dispatcher) DestroyGame(ctx context.Context, g *model.Game) {
	if !d.valid(g, "destroy") {
		return
	}
	ctx = ensureTrace(ctx)
	d.Dispatch(ctx, g.ID, event.Game(event.GameDestroy), g)
	d.Dispatch(ctx, g.ID, event.Notification(event.NotificationDestroy), d.summarize(*g))

	if d.evictOnDestroy {
		if err := d.counter.Forget(ctx, g.ID); err != nil {
			d.log.Warn("dispatch: unable to forget sequence", zap.Int("id", g.ID), zap.Error(err))
			return
		}
		metrics.SequenceEvicted.Inc()
	}
}

func (d *Dispatcher) StartGame(ctx context.Context, g *model.Game) {
	if d.valid(g, "begin") {
		d.Dispatch(ensureTrace(ctx), g.ID, event.Game(event.GameBegin), g)
	}
}

// PlayerChange carries the game with its current player list.
func (d *Dispatcher) PlayerChange(ctx context.Context, g *model.Game) {
	if d.valid(g, "player change") {
		d.Dispatch(ensureTrace(ctx), g.ID, event.Game(event.GamePlayerChange), g)
	}
}

// MoveComplete carries the move, not the game. A nil move is sent without
// a body.
func (d *Dispatcher) MoveComplete(ctx context.Context, g *model.Game, m *model.Move) {
	if !d.valid(g, "move complete") {
		return
	}
	var payload any
	if m != nil {
		payload = m
	}
	d.Dispatch(ensureTrace(ctx), g.ID, event.Game(event.GameMoveComplete), payload)
}

func (d *Dispatcher) StateChange(ctx context.Context, g *model.Game) {
	if d.valid(g, "state change") {
		d.Dispatch(ensureTrace(ctx), g.ID, event.Game(event.GameStateChange), g)
	}
}

func (d *Dispatcher) GameChange(ctx context.Context, g *model.Game) {
	if d.valid(g, "game change") {
		d.Dispatch(ensureTrace(ctx), g.ID, event.Game(event.GameChange), g)
	}
}

func (d *Dispatcher) EndGame(ctx context.Context, g *model.Game) {
	if d.valid(g, "end") {
		d.Dispatch(ensureTrace(ctx), g.ID, event.Game(event.GameEnd), g)
	}
}

func (d *Dispatcher) valid(g *model.Game, op string) bool {
	if g == nil {
		d.log.Error("dispatch: nil game", zap.String("op", op))
		return false
	}
	return true
}
