package room

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/moodboard/moodboard-server/internal/protocol"
)

// Outcome of one game action.
type Outcome int

const (
	// Continue keeps the game running and passes the turn on.
	Continue Outcome = iota
	// End finishes the game; final scores are broadcast and the game cleared.
	End
	// Rejected means the action was not accepted: no state change, no broadcast.
	Rejected
)

// Game type tags, matching the wire values clients send.
const (
	GameQuickPoll  = "Quick Poll"
	GameWordChain  = "Word Chain"
	GameEmojiStory = "Emoji Story"
	GameTeamTrivia = "Team Trivia"
)

// variant is the uniform contract every mini-game implements. apply mutates
// the variant's own state and reports the outcome plus any points the actor
// earned from this action.
type variant interface {
	data() any
	apply(action string, data json.RawMessage, actor string) (Outcome, int)
	// turnGated variants only accept actions from the current-turn player
	// when turn enforcement is switched on.
	turnGated() bool
}

// Game wraps a variant with the room-level bookkeeping shared by all types:
// the player snapshot taken at start, the turn index and the scores.
type Game struct {
	gameType string
	v        variant
	players  []string
	turn     int
	scores   map[string]int
}

func newGame(gameType string, players []string) *Game {
	var v variant
	switch gameType {
	case GameQuickPoll:
		v = newQuickPoll(len(players))
	case GameWordChain:
		v = newWordChain()
	case GameEmojiStory:
		v = newEmojiStory()
	case GameTeamTrivia:
		v = newTeamTrivia()
	default:
		return nil
	}
	return &Game{gameType: gameType, v: v, players: players, scores: make(map[string]int)}
}

func (g *Game) currentPlayer() string {
	return g.players[g.turn]
}

func (g *Game) advanceTurn() string {
	g.turn = (g.turn + 1) % len(g.players)
	return g.players[g.turn]
}

// StartGame snapshots the current roster as the player list and broadcasts
// the opening state. A room with no members, or an unknown game type, is a
// silent no-op. Any game already in progress is replaced.
func (r *Room) StartGame(gameType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) == 0 {
		return
	}
	game := newGame(gameType, r.rosterLocked())
	if game == nil {
		log.Debug().Str("room", r.id).Str("gameType", gameType).Msg("unknown game type")
		return
	}
	r.game = game

	log.Info().Str("room", r.id).Str("gameType", gameType).Int("players", len(game.players)).Msg("game started")

	r.broadcastLocked(protocol.GameStartEvent{
		Type:        "gameStart",
		GameType:    gameType,
		InitialData: game.v.data(),
		FirstPlayer: game.players[0],
	})
}

// ApplyGameAction routes an action to the active game. On Continue the turn
// advances and the updated payload is broadcast; on End the final scores are
// broadcast and the game cleared; Rejected changes and broadcasts nothing.
func (r *Room) ApplyGameAction(action string, data json.RawMessage, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.game
	if g == nil {
		return ErrNoActiveGame
	}
	if r.enforceTurns && g.v.turnGated() && actor != g.currentPlayer() {
		return nil
	}

	outcome, points := g.v.apply(action, data, actor)
	switch outcome {
	case Rejected:
		return nil
	case End:
		if points > 0 {
			g.scores[actor] += points
		}
		log.Info().Str("room", r.id).Str("gameType", g.gameType).Msg("game ended")
		r.broadcastLocked(protocol.GameEndEvent{Type: "gameEnd", Scores: g.scores})
		r.game = nil
	case Continue:
		if points > 0 {
			g.scores[actor] += points
		}
		r.broadcastLocked(protocol.GameUpdateEvent{
			Type:       "gameUpdate",
			GameData:   g.v.data(),
			NextPlayer: g.advanceTurn(),
		})
	}
	return nil
}
