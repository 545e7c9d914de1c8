package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lzyats/multigame-notify-go/pkg/model"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
)

// Scorer rates a candidate move; higher is better.
type Scorer func(game model.Game, m model.Move) float64

// Strategic picks legal moves ranked by a Scorer.
type Strategic struct {
	player model.Player
	rules  Rules
	score  Scorer
	log    *zap.Logger

	once    sync.Once
	initErr error
	ready   atomic.Bool
}

type StrategicOptions struct {
	Scorer Scorer
	Log    *zap.Logger
}

func NewStrategic(player model.Player, rules Rules, opt StrategicOptions) *Strategic {
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	return &Strategic{player: player, rules: rules, score: opt.Scorer, log: opt.Log}
}

func (s *Strategic) Player() model.Player { return s.player }

func (s *Strategic) Initialize(ctx context.Context) error {
	s.once.Do(func() {
		if err := ctx.Err(); err != nil {
			s.initErr = err
			return
		}
		if s.rules == nil {
			s.initErr = fmt.Errorf("agent %s: no rules: %w", s.player.Name, notify.ErrNotConfigured)
			return
		}
		s.ready.Store(true)
		s.log.Debug("agent ready", zap.String("player", s.player.Name))
	})
	return s.initErr
}

func (s *Strategic) Ready() bool { return s.ready.Load() }

func (s *Strategic) DetermineMoves(ctx context.Context, game model.Game) ([]model.Move, error) {
	if !s.Ready() {
		return nil, notify.ErrNotReady
	}
	if game.Terminal() {
		return []model.Move{}, nil
	}

	legal := s.rules.LegalMoves(game, s.player)
	out := make([]model.Move, 0, len(legal))
	scores := make([]float64, 0, len(legal))
	for _, m := range legal {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.GameID = game.ID
		if m.Player == "" {
			m.Player = s.player.Name
		}
		m.Status = model.MoveEvaluated
		out = append(out, m)
		if s.score != nil {
			scores = append(scores, s.score(game, m))
		} else {
			scores = append(scores, 0)
		}
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	ranked := make([]model.Move, len(out))
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked, nil
}

// ProcessSuggestion accepts a suggestion when it matches one of the moves
// the agent would make itself.
func (s *Strategic) ProcessSuggestion(ctx context.Context, game model.Game, sg model.Suggestion) (model.Suggestion, error) {
	moves, err := s.DetermineMoves(ctx, game)
	if err != nil {
		return sg, err
	}
	sg.Status = model.SuggestionReject
	for _, m := range moves {
		if m.Same(sg.Move) {
			sg.Status = model.SuggestionAccept
			break
		}
	}
	s.log.Debug("agent processed suggestion",
		zap.String("player", s.player.Name),
		zap.String("suggestor", sg.Suggestor),
		zap.String("status", string(sg.Status)),
	)
	return sg, nil
}
