package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"territory-arena/internal/game"
)

func TestNewMessage_SetsEnvelope(t *testing.T) {
	msg, err := NewMessage(TypeReinforce, ReinforcePayload{Target: game.At(1, 2), Amount: 3})
	require.NoError(t, err)

	assert.Equal(t, TypeReinforce, msg.Type)
	assert.NotEmpty(t, msg.ID)
	assert.NotZero(t, msg.Timestamp)
	assert.JSONEq(t, `{"target":{"row":1,"col":2},"amount":3}`, string(msg.Payload))
}

func TestNewReply_KeepsRequestID(t *testing.T) {
	reply, err := NewReply("req-1", TypeActionResult, ActionResultPayload{Action: TypeMoveUnits})
	require.NoError(t, err)
	assert.Equal(t, "req-1", reply.ID)
}

func TestParsePayload_FromWire(t *testing.T) {
	raw := `{"type":"move_units","id":"abc","timestamp":1,"payload":{"from":{"row":1,"col":1},"to":{"row":1,"col":2},"units":2}}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, TypeMoveUnits, msg.Type)

	var p MoveUnitsPayload
	require.NoError(t, msg.ParsePayload(&p))
	assert.Equal(t, game.At(1, 1), p.From)
	assert.Equal(t, game.At(1, 2), p.To)
	assert.Equal(t, 2, p.Units)
}

func TestParsePayload_RejectsMalformed(t *testing.T) {
	msg := &Message{Type: TypeReinforce, Payload: json.RawMessage(`{"amount":"three"}`)}
	var p ReinforcePayload
	assert.Error(t, msg.ParsePayload(&p))
}
