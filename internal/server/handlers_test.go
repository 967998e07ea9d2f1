package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"territory-arena/internal/database"
	"territory-arena/internal/game"
	"territory-arena/internal/protocol"
	"territory-arena/internal/session"
)

// recv returns the next message queued for c.
func recv(t *testing.T, c *Client) *protocol.Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message for client")
		return nil
	}
}

func assertEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected %s message", msg.Type)
	default:
	}
}

func request(t *testing.T, h *Handlers, c *Client, msgType protocol.MessageType, payload any) *protocol.Message {
	t.Helper()
	msg, err := protocol.NewMessage(msgType, payload)
	require.NoError(t, err)
	h.Handle(c, msg)
	return msg
}

func payloadOf[T any](t *testing.T, msg *protocol.Message, want protocol.MessageType) T {
	t.Helper()
	require.Equal(t, want, msg.Type, "payload %s", string(msg.Payload))
	var v T
	require.NoError(t, msg.ParsePayload(&v))
	return v
}

func expectError(t *testing.T, c *Client, code protocol.ErrorCode) {
	t.Helper()
	p := payloadOf[protocol.ErrorPayload](t, recv(t, c), protocol.TypeError)
	assert.Equal(t, code, p.Code, p.Message)
}

// setupStarted creates a session with alice and bob joined and distributed
// sequentially, two territories each on the 4x4 test arena.
func setupStarted(t *testing.T) (*Server, *Handlers, *Client, *Client, string) {
	t.Helper()
	s := newTestServer(t)
	h := NewHandlers(s.hub)
	alice, bob := NewClient(s.hub, nil), NewClient(s.hub, nil)

	req := request(t, h, alice, protocol.TypeCreateSession, protocol.CreateSessionPayload{Name: "duel"})
	reply := recv(t, alice)
	assert.Equal(t, req.ID, reply.ID)
	created := payloadOf[protocol.SessionCreatedPayload](t, reply, protocol.TypeSessionCreated)

	request(t, h, alice, protocol.TypeJoinSession, protocol.JoinSessionPayload{SessionID: created.SessionID, PlayerName: "alice"})
	joined := payloadOf[protocol.JoinedSessionPayload](t, recv(t, alice), protocol.TypeJoinedSession)
	assert.Equal(t, 0, joined.PlayerIndex)

	request(t, h, bob, protocol.TypeJoinSession, protocol.JoinSessionPayload{SessionID: created.SessionID, PlayerName: "bob"})
	joined = payloadOf[protocol.JoinedSessionPayload](t, recv(t, bob), protocol.TypeJoinedSession)
	assert.Equal(t, 1, joined.PlayerIndex)

	request(t, h, alice, protocol.TypeStartSession, protocol.StartSessionPayload{Mode: "sequential"})
	for _, c := range []*Client{alice, bob} {
		started := payloadOf[protocol.SessionStartedPayload](t, recv(t, c), protocol.TypeSessionStarted)
		assert.Equal(t, 2, started.TerritoriesPerPlayer)
		assert.Equal(t, "sequential", started.Mode)
		turn := payloadOf[protocol.TurnChangedPayload](t, recv(t, c), protocol.TypeTurnChanged)
		assert.Equal(t, 0, turn.PlayerIndex)
	}
	return s, h, alice, bob, created.SessionID
}

func TestHandlers_Game(t *testing.T) {
	s, h, alice, bob, id := setupStarted(t)

	// Sequential deal: alice (0,0),(0,2); bob (0,1),(0,3). Pools of 3.
	request(t, h, bob, protocol.TypeReinforce, protocol.ReinforcePayload{Target: game.At(0, 1), Amount: 1})
	expectError(t, bob, protocol.ErrCodeNotYourTurn)

	request(t, h, alice, protocol.TypeReinforce, protocol.ReinforcePayload{Target: game.At(0, 0), Amount: 2})
	result := payloadOf[protocol.ActionResultPayload](t, recv(t, alice), protocol.TypeActionResult)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Pool)
	for _, c := range []*Client{alice, bob} {
		state := payloadOf[protocol.ArenaStatePayload](t, recv(t, c), protocol.TypeArenaState)
		cell, ok := state.Arena.TerritoryAt(game.At(0, 0))
		require.True(t, ok)
		assert.Equal(t, 3, cell.Units)
	}

	request(t, h, alice, protocol.TypeMoveUnits, protocol.MoveUnitsPayload{From: game.At(0, 0), To: game.At(0, 2), Units: 2})
	result = payloadOf[protocol.ActionResultPayload](t, recv(t, alice), protocol.TypeActionResult)
	assert.True(t, result.Success)
	recv(t, alice)
	recv(t, bob)

	request(t, h, alice, protocol.TypeMoveUnits, protocol.MoveUnitsPayload{From: game.At(0, 0), To: game.At(0, 2), Units: 1})
	result = payloadOf[protocol.ActionResultPayload](t, recv(t, alice), protocol.TypeActionResult)
	assert.False(t, result.Success)
	assertEmpty(t, alice)
	assertEmpty(t, bob)

	request(t, h, alice, protocol.TypeMoveUnits, protocol.MoveUnitsPayload{From: game.At(0, 0), To: game.At(9, 9), Units: 1})
	expectError(t, alice, protocol.ErrCodeOutOfBounds)

	request(t, h, alice, protocol.TypeEndTurn, struct{}{})
	for _, c := range []*Client{alice, bob} {
		turn := payloadOf[protocol.TurnChangedPayload](t, recv(t, c), protocol.TypeTurnChanged)
		assert.Equal(t, 1, turn.PlayerIndex)
		assert.Equal(t, 3, turn.Granted)
	}

	request(t, h, bob, protocol.TypeReinforceEvenly, struct{}{})
	result = payloadOf[protocol.ActionResultPayload](t, recv(t, bob), protocol.TypeActionResult)
	assert.True(t, result.Success)
	assert.Equal(t, 6, result.Placed)
	assert.Zero(t, result.Pool)

	actions, err := s.db.GetActions(id)
	require.NoError(t, err)
	require.Len(t, actions, 5)
	assert.Equal(t, "reinforce", actions[0].Type)
	assert.False(t, actions[2].Accepted)
	assert.Equal(t, "end_turn", actions[3].Type)
	assert.Equal(t, 1, actions[4].PlayerIndex)
}

func TestHandlers_RequireJoin(t *testing.T) {
	s := newTestServer(t)
	h := NewHandlers(s.hub)
	c := NewClient(s.hub, nil)

	for _, typ := range []protocol.MessageType{
		protocol.TypeStartSession, protocol.TypeReinforce, protocol.TypeReinforceEvenly,
		protocol.TypeMoveUnits, protocol.TypeEndTurn, protocol.TypeGetArena,
	} {
		request(t, h, c, typ, struct{}{})
		expectError(t, c, protocol.ErrCodeNotJoined)
	}
}

func TestHandlers_Errors(t *testing.T) {
	s, h, alice, _, id := setupStarted(t)

	request(t, h, alice, protocol.MessageType("attack"), struct{}{})
	expectError(t, alice, protocol.ErrCodeUnknownType)

	request(t, h, alice, protocol.TypeStartSession, protocol.StartSessionPayload{})
	expectError(t, alice, protocol.ErrCodeAlreadyStarted)

	late := NewClient(s.hub, nil)
	request(t, h, late, protocol.TypeJoinSession, protocol.JoinSessionPayload{SessionID: id, PlayerName: "late"})
	expectError(t, late, protocol.ErrCodeAlreadyStarted)

	request(t, h, late, protocol.TypeJoinSession, protocol.JoinSessionPayload{SessionID: "missing", PlayerName: "late"})
	expectError(t, late, protocol.ErrCodeSessionNotFound)

	request(t, h, late, protocol.TypeCreateSession, protocol.CreateSessionPayload{Name: " "})
	expectError(t, late, protocol.ErrCodeInvalidName)

	bad := &protocol.Message{Type: protocol.TypeReinforce, ID: "x", Payload: []byte(`{"amount":"lots"}`)}
	h.Handle(alice, bad)
	expectError(t, alice, protocol.ErrCodeInvalidMessage)
}

func TestHandlers_StartValidation(t *testing.T) {
	s := newTestServer(t)
	h := NewHandlers(s.hub)
	c := NewClient(s.hub, nil)

	sess, err := s.sessions.Create("x")
	require.NoError(t, err)
	request(t, h, c, protocol.TypeJoinSession, protocol.JoinSessionPayload{SessionID: sess.ID, PlayerName: "solo"})
	recv(t, c)

	request(t, h, c, protocol.TypeStartSession, protocol.StartSessionPayload{Mode: "spiral"})
	expectError(t, c, protocol.ErrCodeUnknownMode)

	request(t, h, c, protocol.TypeStartSession, protocol.StartSessionPayload{TerritoriesPerPlayer: 17})
	expectError(t, c, protocol.ErrCodeInvalidCount)
}

func TestHandlers_ListAndArena(t *testing.T) {
	_, h, alice, _, id := setupStarted(t)

	request(t, h, alice, protocol.TypeListSessions, struct{}{})
	list := payloadOf[protocol.SessionListPayload](t, recv(t, alice), protocol.TypeSessionList)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, "started", list.Sessions[0].Status)
	assert.Equal(t, 2, list.Sessions[0].PlayerCount)

	request(t, h, alice, protocol.TypeGetArena, protocol.GetArenaPayload{})
	state := payloadOf[protocol.ArenaStatePayload](t, recv(t, alice), protocol.TypeArenaState)
	assert.Equal(t, id, state.SessionID)
	assert.True(t, state.Arena.Distributed)
	assert.Len(t, state.Arena.Players, 2)
}

func TestHub_DisconnectLeavesSession(t *testing.T) {
	_, _, alice, bob, id := setupStarted(t)
	hub := alice.hub
	require.Equal(t, 2, hub.SessionClientCount(id))

	hub.mu.Lock()
	hub.clients[alice] = true
	hub.clients[bob] = true
	hub.mu.Unlock()

	hub.handleDisconnect(alice)
	assert.Equal(t, 1, hub.SessionClientCount(id))

	_, ok := <-alice.send
	assert.False(t, ok, "send channel closed")
	alice.Send(&protocol.Message{Type: protocol.TypePong})

	_, err := hub.server.sessions.Get(id)
	require.NoError(t, err, "still live while bob is connected")

	hub.handleDisconnect(bob)
	assert.Zero(t, hub.SessionClientCount(id))
	_, err = hub.server.sessions.Get(id)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestAPI_ClosedSessionKeepsHistory(t *testing.T) {
	s, h, alice, bob, id := setupStarted(t)

	request(t, h, alice, protocol.TypeEndTurn, struct{}{})
	recv(t, alice)
	recv(t, bob)

	s.hub.mu.Lock()
	s.hub.clients[alice] = true
	s.hub.clients[bob] = true
	s.hub.mu.Unlock()
	s.hub.handleDisconnect(alice)
	s.hub.handleDisconnect(bob)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusNotFound, get("/api/sessions/"+id+"/arena").Code)

	w := get("/api/sessions")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Sessions []session.Info            `json:"sessions"`
		History  []database.SessionRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list.Sessions)
	require.Len(t, list.History, 1)
	assert.Equal(t, id, list.History[0].ID)
	assert.Equal(t, "started", list.History[0].Status)
	assert.Equal(t, 2, list.History[0].PlayerCount)

	w = get("/api/sessions/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	var rec database.SessionRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, int64(1), rec.Seed)
	assert.Equal(t, "sequential", rec.Mode)

	w = get("/api/sessions/" + id + "/actions")
	require.Equal(t, http.StatusOK, w.Code)
	var journal struct {
		Actions []database.Action `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &journal))
	require.Len(t, journal.Actions, 1)
	assert.Equal(t, "end_turn", journal.Actions[0].Type)
}

func TestHandlers_RejectsSecondJoin(t *testing.T) {
	s, h, alice, bob, id := setupStarted(t)

	other, err := s.sessions.Create("other")
	require.NoError(t, err)
	request(t, h, alice, protocol.TypeJoinSession, protocol.JoinSessionPayload{SessionID: other.ID, PlayerName: "alice"})
	expectError(t, alice, protocol.ErrCodeAlreadyJoined)

	assert.Zero(t, other.Info().PlayerCount)
	assert.Zero(t, s.hub.SessionClientCount(other.ID))
	assert.Equal(t, 2, s.hub.SessionClientCount(id))
	assertEmpty(t, bob)
}

// A client's requests are handled in arrival order even when sent without
// waiting for replies.
func TestHub_PipelinedRequestsRunInOrder(t *testing.T) {
	s, _, alice, bob, _ := setupStarted(t)
	go s.hub.Run()

	for _, c := range []*Client{alice, bob} {
		s.hub.Register(c)
		payloadOf[protocol.WelcomePayload](t, recv(t, c), protocol.TypeWelcome)
	}

	players := []*Client{alice, bob}
	home := []game.Coordinate{game.At(0, 0), game.At(0, 1)}
	for round := 0; round < 10; round++ {
		idx := round % 2
		actor := players[idx]

		reinforce, err := protocol.NewMessage(protocol.TypeReinforce, protocol.ReinforcePayload{Target: home[idx], Amount: 1})
		require.NoError(t, err)
		endTurn, err := protocol.NewMessage(protocol.TypeEndTurn, struct{}{})
		require.NoError(t, err)
		s.hub.Dispatch(actor, reinforce)
		s.hub.Dispatch(actor, endTurn)

		result := payloadOf[protocol.ActionResultPayload](t, recv(t, actor), protocol.TypeActionResult)
		assert.True(t, result.Success, "round %d", round)
		for _, c := range players {
			payloadOf[protocol.ArenaStatePayload](t, recv(t, c), protocol.TypeArenaState)
			turn := payloadOf[protocol.TurnChangedPayload](t, recv(t, c), protocol.TypeTurnChanged)
			assert.Equal(t, 1-idx, turn.PlayerIndex, "round %d", round)
		}
	}
}
