package server

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"territory-arena/internal/database"
	"territory-arena/internal/game"
	"territory-arena/internal/protocol"
	"territory-arena/internal/session"
)

var (
	errNotJoined      = errors.New("join a session first")
	errAlreadyJoined  = errors.New("already joined a session")
	errUnknownType    = errors.New("unknown message type")
	errInvalidPayload = errors.New("invalid payload")
)

// Handlers processes incoming messages.
type Handlers struct {
	hub *Hub
}

// NewHandlers creates a new handler set.
func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{hub: hub}
}

// Handle routes a message to its handler and reports failures to the client.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypePing:
		h.reply(client, msg.ID, protocol.TypePong, struct{}{})
	case protocol.TypeCreateSession:
		err = h.handleCreateSession(client, msg)
	case protocol.TypeJoinSession:
		err = h.handleJoinSession(client, msg)
	case protocol.TypeStartSession:
		err = h.handleStartSession(client, msg)
	case protocol.TypeListSessions:
		err = h.handleListSessions(client, msg)
	case protocol.TypeReinforce:
		err = h.handleReinforce(client, msg)
	case protocol.TypeReinforceEvenly:
		err = h.handleReinforceEvenly(client, msg)
	case protocol.TypeMoveUnits:
		err = h.handleMoveUnits(client, msg)
	case protocol.TypeEndTurn:
		err = h.handleEndTurn(client, msg)
	case protocol.TypeGetArena:
		err = h.handleGetArena(client, msg)
	default:
		err = fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}

	if err != nil {
		client.log.Debug().Err(err).Str("type", string(msg.Type)).Msg("request failed")
		h.sendError(client, msg.ID, err)
	}
}

func (h *Handlers) handleCreateSession(client *Client, msg *protocol.Message) error {
	var payload protocol.CreateSessionPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}

	sess, err := h.hub.server.sessions.Create(payload.Name)
	if err != nil {
		return err
	}
	snap := sess.Snapshot()
	if err := h.hub.server.db.CreateSession(sess.ID, sess.Name, snap.Rows, snap.Cols, sess.Seed); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("store session")
	}

	log.Info().Str("session", sess.ID).Str("name", sess.Name).Int64("seed", sess.Seed).Msg("session created")
	h.reply(client, msg.ID, protocol.TypeSessionCreated, protocol.SessionCreatedPayload{
		SessionID: sess.ID,
		Name:      sess.Name,
	})
	return nil
}

func (h *Handlers) handleJoinSession(client *Client, msg *protocol.Message) error {
	var payload protocol.JoinSessionPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}

	if bound, _, ok := client.Binding(); ok {
		return fmt.Errorf("%w: %s", errAlreadyJoined, bound)
	}
	sess, err := h.hub.server.sessions.Get(payload.SessionID)
	if err != nil {
		return err
	}
	player, err := sess.Join(payload.PlayerName)
	if err != nil {
		return err
	}
	idx := int(player.ID())
	h.hub.JoinSession(client, sess.ID, idx)

	if err := h.hub.server.db.AddSessionPlayer(sess.ID, idx, player.Name); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("store session player")
	}

	log.Info().Str("session", sess.ID).Int("player", idx).Str("name", player.Name).Msg("player joined")
	h.reply(client, msg.ID, protocol.TypeJoinedSession, protocol.JoinedSessionPayload{
		SessionID:   sess.ID,
		PlayerIndex: idx,
		PlayerName:  player.Name,
	})
	return nil
}

func (h *Handlers) handleStartSession(client *Client, msg *protocol.Message) error {
	sess, _, err := h.boundSession(client)
	if err != nil {
		return err
	}

	var payload protocol.StartSessionPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	k := payload.TerritoriesPerPlayer
	if k == 0 {
		k = h.hub.server.cfg.Game.DefaultTerritoriesPerPlayer
	}
	modeName := payload.Mode
	if modeName == "" {
		modeName = game.DistributeRandom.String()
	}
	mode, err := game.ParseDistributionMode(modeName)
	if err != nil {
		return err
	}

	if err := sess.Start(k, mode); err != nil {
		return err
	}
	if err := h.hub.server.db.MarkSessionStarted(sess.ID, k, mode.String()); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("store session start")
	}

	log.Info().Str("session", sess.ID).Int("territories", k).Str("mode", mode.String()).Msg("session started")
	h.hub.notifySession(sess.ID, protocol.TypeSessionStarted, protocol.SessionStartedPayload{
		SessionID:            sess.ID,
		TerritoriesPerPlayer: k,
		Mode:                 mode.String(),
		Arena:                sess.Snapshot(),
	})
	h.hub.notifySession(sess.ID, protocol.TypeTurnChanged, protocol.TurnChangedPayload{PlayerIndex: 0})
	return nil
}

func (h *Handlers) handleListSessions(client *Client, msg *protocol.Message) error {
	infos := h.hub.server.sessions.List()
	items := make([]protocol.SessionListItem, len(infos))
	for i, info := range infos {
		items[i] = protocol.SessionListItem{
			ID:          info.ID,
			Name:        info.Name,
			Status:      string(info.Status),
			PlayerCount: info.PlayerCount,
		}
	}
	h.reply(client, msg.ID, protocol.TypeSessionList, protocol.SessionListPayload{Sessions: items})
	return nil
}

func (h *Handlers) handleReinforce(client *Client, msg *protocol.Message) error {
	sess, idx, err := h.boundSession(client)
	if err != nil {
		return err
	}
	var payload protocol.ReinforcePayload
	if err := parse(msg, &payload); err != nil {
		return err
	}

	ok, err := sess.Reinforce(idx, payload.Target, payload.Amount)
	if err != nil {
		return err
	}
	h.finishAction(client, msg, sess, idx, payload, ok, 0)
	return nil
}

func (h *Handlers) handleReinforceEvenly(client *Client, msg *protocol.Message) error {
	sess, idx, err := h.boundSession(client)
	if err != nil {
		return err
	}

	placed, err := sess.ReinforceEvenly(idx)
	if err != nil {
		return err
	}
	h.finishAction(client, msg, sess, idx, struct{}{}, placed > 0, placed)
	return nil
}

func (h *Handlers) handleMoveUnits(client *Client, msg *protocol.Message) error {
	sess, idx, err := h.boundSession(client)
	if err != nil {
		return err
	}
	var payload protocol.MoveUnitsPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}

	ok, err := sess.MoveUnits(idx, payload.From, payload.To, payload.Units)
	if err != nil {
		return err
	}
	h.finishAction(client, msg, sess, idx, payload, ok, 0)
	return nil
}

func (h *Handlers) handleEndTurn(client *Client, msg *protocol.Message) error {
	sess, idx, err := h.boundSession(client)
	if err != nil {
		return err
	}

	next, granted, err := sess.EndTurn(idx)
	if err != nil {
		return err
	}
	h.journal(sess.ID, idx, msg.Type, protocol.TurnChangedPayload{PlayerIndex: next, Granted: granted}, true)

	log.Debug().Str("session", sess.ID).Int("next", next).Int("granted", granted).Msg("turn ended")
	h.hub.notifySession(sess.ID, protocol.TypeTurnChanged, protocol.TurnChangedPayload{
		PlayerIndex: next,
		Granted:     granted,
	})
	return nil
}

func (h *Handlers) handleGetArena(client *Client, msg *protocol.Message) error {
	var payload protocol.GetArenaPayload
	if len(msg.Payload) > 0 {
		if err := parse(msg, &payload); err != nil {
			return err
		}
	}
	id := payload.SessionID
	if id == "" {
		bound, _, ok := client.Binding()
		if !ok {
			return errNotJoined
		}
		id = bound
	}

	sess, err := h.hub.server.sessions.Get(id)
	if err != nil {
		return err
	}
	h.reply(client, msg.ID, protocol.TypeArenaState, arenaState(sess))
	return nil
}

// finishAction journals an action, answers the sender and, when the arena
// changed, pushes the new state to the whole session.
func (h *Handlers) finishAction(client *Client, msg *protocol.Message, sess *session.Session, idx int, payload any, ok bool, placed int) {
	h.journal(sess.ID, idx, msg.Type, payload, ok)

	state := arenaState(sess)
	pool := 0
	if idx < len(state.Arena.Players) {
		pool = state.Arena.Players[idx].Reinforcements
	}
	h.reply(client, msg.ID, protocol.TypeActionResult, protocol.ActionResultPayload{
		Action:      msg.Type,
		Success:     ok,
		PlayerIndex: idx,
		Placed:      placed,
		Pool:        pool,
	})
	if ok {
		h.hub.notifySession(sess.ID, protocol.TypeArenaState, state)
	}
}

func (h *Handlers) journal(sessionID string, idx int, action protocol.MessageType, payload any, accepted bool) {
	if err := h.hub.server.db.LogAction(sessionID, idx, string(action), payload, accepted); err != nil {
		log.Error().Err(err).Str("session", sessionID).Str("action", string(action)).Msg("journal action")
	}
}

// boundSession returns the session and player index the client joined.
func (h *Handlers) boundSession(client *Client) (*session.Session, int, error) {
	id, idx, ok := client.Binding()
	if !ok {
		return nil, 0, errNotJoined
	}
	sess, err := h.hub.server.sessions.Get(id)
	if err != nil {
		return nil, 0, err
	}
	return sess, idx, nil
}

func (h *Handlers) reply(client *Client, requestID string, msgType protocol.MessageType, payload any) {
	msg, err := protocol.NewReply(requestID, msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(msgType)).Msg("encode reply")
		return
	}
	client.Send(msg)
}

func (h *Handlers) sendError(client *Client, requestID string, err error) {
	h.reply(client, requestID, protocol.TypeError, protocol.ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}

func arenaState(sess *session.Session) protocol.ArenaStatePayload {
	snap, turn, _ := sess.State()
	return protocol.ArenaStatePayload{
		SessionID: sess.ID,
		Turn:      turn,
		Arena:     snap,
	}
}

func parse(msg *protocol.Message, v any) error {
	if err := msg.ParsePayload(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

// errorCode maps an error to the code sent to clients.
func errorCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, errInvalidPayload):
		return protocol.ErrCodeInvalidMessage
	case errors.Is(err, errUnknownType):
		return protocol.ErrCodeUnknownType
	case errors.Is(err, errNotJoined):
		return protocol.ErrCodeNotJoined
	case errors.Is(err, errAlreadyJoined):
		return protocol.ErrCodeAlreadyJoined
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, database.ErrSessionNotFound):
		return protocol.ErrCodeSessionNotFound
	case errors.Is(err, session.ErrNotStarted):
		return protocol.ErrCodeNotStarted
	case errors.Is(err, session.ErrAlreadyStarted), errors.Is(err, game.ErrRegistrationClosed):
		return protocol.ErrCodeAlreadyStarted
	case errors.Is(err, session.ErrNotYourTurn):
		return protocol.ErrCodeNotYourTurn
	case errors.Is(err, session.ErrEmptyName):
		return protocol.ErrCodeInvalidName
	case errors.Is(err, game.ErrOutOfBounds):
		return protocol.ErrCodeOutOfBounds
	case errors.Is(err, game.ErrAlreadyDistributed):
		return protocol.ErrCodeAlreadyDistributed
	case errors.Is(err, game.ErrInvalidTerritoryCount):
		return protocol.ErrCodeInvalidCount
	case errors.Is(err, game.ErrUnknownMode):
		return protocol.ErrCodeUnknownMode
	case errors.Is(err, game.ErrNoPlayers):
		return protocol.ErrCodeNoPlayers
	case errors.Is(err, game.ErrNoTerritories):
		return protocol.ErrCodeNoTerritories
	default:
		return protocol.ErrCodeInternalError
	}
}
