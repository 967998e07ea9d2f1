package client

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"territory-arena/internal/game"
	"territory-arena/internal/protocol"
)

// LogMessage writes a server message to logger as one structured line.
func LogMessage(logger zerolog.Logger, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeWelcome:
		var p protocol.WelcomePayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Str("version", p.ServerVersion).Int("rows", p.Rows).Int("cols", p.Cols).Msg("connected to server")
		}
	case protocol.TypeError:
		var p protocol.ErrorPayload
		if msg.ParsePayload(&p) == nil {
			logger.Error().Str("code", string(p.Code)).Msg(p.Message)
		}
	case protocol.TypeSessionCreated:
		var p protocol.SessionCreatedPayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Str("session", p.SessionID).Str("name", p.Name).Msg("session created")
		}
	case protocol.TypeJoinedSession:
		var p protocol.JoinedSessionPayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Str("session", p.SessionID).Int("player", p.PlayerIndex).Msg("joined")
		}
	case protocol.TypeSessionList:
		var p protocol.SessionListPayload
		if msg.ParsePayload(&p) == nil {
			for _, s := range p.Sessions {
				logger.Info().Str("session", s.ID).Str("name", s.Name).Str("status", s.Status).Int("players", s.PlayerCount).Msg("session")
			}
		}
	case protocol.TypeSessionStarted:
		var p protocol.SessionStartedPayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Int("territories", p.TerritoriesPerPlayer).Str("mode", p.Mode).Msg("session started")
			logArena(logger, p.Arena)
		}
	case protocol.TypeTurnChanged:
		var p protocol.TurnChangedPayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Int("player", p.PlayerIndex).Int("granted", p.Granted).Msg("turn changed")
		}
	case protocol.TypeActionResult:
		var p protocol.ActionResultPayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Str("action", string(p.Action)).Bool("success", p.Success).Int("placed", p.Placed).Int("pool", p.Pool).Msg("action result")
		}
	case protocol.TypeArenaState:
		var p protocol.ArenaStatePayload
		if msg.ParsePayload(&p) == nil {
			logger.Info().Int("turn", p.Turn).Msg("arena")
			logArena(logger, p.Arena)
		}
	default:
		logger.Debug().Str("type", string(msg.Type)).Str("payload", string(msg.Payload)).Msg("message")
	}
}

func logArena(logger zerolog.Logger, a game.ArenaSnapshot) {
	for _, p := range a.Players {
		logger.Info().
			Int("player", int(p.ID)).
			Str("name", p.Name).
			Int("territories", p.Territories).
			Int("units", p.Units).
			Int("pool", p.Reinforcements).
			Msg("player")
	}
	for _, t := range OwnedCells(a) {
		logger.Debug().Msg(t)
	}
}

// OwnedCells lists the player-owned cells of a snapshot in scan order as
// "row,col owner=N units=M".
func OwnedCells(a game.ArenaSnapshot) []string {
	var out []string
	for _, t := range a.Territories {
		if t.Owner < 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%d,%d owner=%d units=%d", t.Row, t.Col, t.Owner, t.Units))
	}
	return out
}

// IsQuit reports whether line asks the CLI to exit.
func IsQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}
