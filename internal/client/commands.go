package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"territory-arena/internal/game"
	"territory-arena/internal/protocol"
)

// ErrUsage is wrapped by every command parsing error.
var ErrUsage = errors.New("usage")

// Usage lists the commands understood by ParseCommand.
const Usage = `commands:
  list                               list sessions
  create <name>                      create a session
  join <session-id> [player-name]    join a waiting session
  start [territories] [mode]         distribute territories (mode: sequential|random)
  reinforce <row> <col> <amount>     place reinforcements
  even                               spend the whole pool evenly
  move <row> <col> <row> <col> <n>   move units between your territories
  end                                end your turn
  arena [session-id]                 show the arena
  ping
  quit`

// ParseCommand turns one input line into a request. defaultName is used when
// join omits the player name.
func ParseCommand(line, defaultName string) (*protocol.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrUsage)
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "list":
		return protocol.NewMessage(protocol.TypeListSessions, struct{}{})

	case "create":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: create <name>", ErrUsage)
		}
		return protocol.NewMessage(protocol.TypeCreateSession, protocol.CreateSessionPayload{
			Name: strings.Join(args, " "),
		})

	case "join":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: join <session-id> [player-name]", ErrUsage)
		}
		name := defaultName
		if len(args) > 1 {
			name = strings.Join(args[1:], " ")
		}
		return protocol.NewMessage(protocol.TypeJoinSession, protocol.JoinSessionPayload{
			SessionID:  args[0],
			PlayerName: name,
		})

	case "start":
		var p protocol.StartSessionPayload
		if len(args) > 0 {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("%w: start [territories] [mode]", ErrUsage)
			}
			p.TerritoriesPerPlayer = k
		}
		if len(args) > 1 {
			mode, err := game.ParseDistributionMode(args[1])
			if err != nil {
				return nil, err
			}
			p.Mode = mode.String()
		}
		return protocol.NewMessage(protocol.TypeStartSession, p)

	case "reinforce", "r":
		n, err := ints(args, 3)
		if err != nil {
			return nil, fmt.Errorf("%w: reinforce <row> <col> <amount>", ErrUsage)
		}
		return protocol.NewMessage(protocol.TypeReinforce, protocol.ReinforcePayload{
			Target: game.At(n[0], n[1]),
			Amount: n[2],
		})

	case "even":
		return protocol.NewMessage(protocol.TypeReinforceEvenly, struct{}{})

	case "move", "m":
		n, err := ints(args, 5)
		if err != nil {
			return nil, fmt.Errorf("%w: move <row> <col> <row> <col> <n>", ErrUsage)
		}
		return protocol.NewMessage(protocol.TypeMoveUnits, protocol.MoveUnitsPayload{
			From:  game.At(n[0], n[1]),
			To:    game.At(n[2], n[3]),
			Units: n[4],
		})

	case "end":
		return protocol.NewMessage(protocol.TypeEndTurn, struct{}{})

	case "arena":
		var p protocol.GetArenaPayload
		if len(args) > 0 {
			p.SessionID = args[0]
		}
		return protocol.NewMessage(protocol.TypeGetArena, p)

	case "ping":
		return protocol.NewMessage(protocol.TypePing, struct{}{})

	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func ints(args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("want %d numbers, got %d", want, len(args))
	}
	out := make([]int, want)
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
