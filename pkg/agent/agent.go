// Package agent defines the contract for automated game participants.
package agent

import (
	"context"
	"time"

	"github.com/lzyats/multigame-notify-go/pkg/model"
)

// Agent is a computer player. The game is passed by value and never
// mutated. Implementations honor ctx cancellation during long decisions.
type Agent interface {
	Player() model.Player
	// Initialize prepares the agent; it is safe to call more than once.
	Initialize(ctx context.Context) error
	// Ready reports whether Initialize has completed successfully.
	Ready() bool
	// DetermineMoves returns the agent's moves for the current game state,
	// best first. A finished game yields an empty slice.
	DetermineMoves(ctx context.Context, game model.Game) ([]model.Move, error)
	// ProcessSuggestion evaluates a move proposed by another participant and
	// returns it with an ACCEPT or REJECT status.
	ProcessSuggestion(ctx context.Context, game model.Game, s model.Suggestion) (model.Suggestion, error)
}

// Rules is the boundary to a game's rules engine.
type Rules interface {
	LegalMoves(game model.Game, player model.Player) []model.Move
}

// RulesFunc adapts a function to Rules.
type RulesFunc func(game model.Game, player model.Player) []model.Move

func (f RulesFunc) LegalMoves(game model.Game, player model.Player) []model.Move {
	return f(game, player)
}

// DetermineWithin bounds a decision by d. A non-positive d means no extra bound.
func DetermineWithin(ctx context.Context, a Agent, game model.Game, d time.Duration) ([]model.Move, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	return a.DetermineMoves(ctx, game)
}
