// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the type of message.
type MessageType string

// Session message types
const (
	TypeCreateSession  MessageType = "create_session"
	TypeSessionCreated MessageType = "session_created"
	TypeJoinSession    MessageType = "join_session"
	TypeJoinedSession  MessageType = "joined_session"
	TypeStartSession   MessageType = "start_session"
	TypeSessionStarted MessageType = "session_started"
	TypeListSessions   MessageType = "list_sessions"
	TypeSessionList    MessageType = "session_list"
)

// Action message types
const (
	TypeReinforce       MessageType = "reinforce"
	TypeReinforceEvenly MessageType = "reinforce_evenly"
	TypeMoveUnits       MessageType = "move_units"
	TypeEndTurn         MessageType = "end_turn"
	TypeActionResult    MessageType = "action_result"
	TypeTurnChanged     MessageType = "turn_changed"
	TypeGetArena        MessageType = "get_arena"
	TypeArenaState      MessageType = "arena_state"
)

// System message types
const (
	TypeWelcome MessageType = "welcome"
	TypeError   MessageType = "error"
	TypePing    MessageType = "ping"
	TypePong    MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// NewReply creates a message that answers the request with the given ID.
func NewReply(requestID string, msgType MessageType, payload interface{}) (*Message, error) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	msg.ID = requestID
	return msg, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ErrorCode represents an error type.
type ErrorCode string

const (
	ErrCodeInvalidMessage     ErrorCode = "invalid_message"
	ErrCodeUnknownType        ErrorCode = "unknown_type"
	ErrCodeNotJoined          ErrorCode = "not_joined"
	ErrCodeAlreadyJoined      ErrorCode = "already_joined"
	ErrCodeSessionNotFound    ErrorCode = "session_not_found"
	ErrCodeNotStarted         ErrorCode = "not_started"
	ErrCodeAlreadyStarted     ErrorCode = "already_started"
	ErrCodeNotYourTurn        ErrorCode = "not_your_turn"
	ErrCodeOutOfBounds        ErrorCode = "out_of_bounds"
	ErrCodeAlreadyDistributed ErrorCode = "already_distributed"
	ErrCodeInvalidCount       ErrorCode = "invalid_territory_count"
	ErrCodeUnknownMode        ErrorCode = "unknown_mode"
	ErrCodeNoPlayers          ErrorCode = "no_players"
	ErrCodeNoTerritories      ErrorCode = "no_territories"
	ErrCodeInvalidName        ErrorCode = "invalid_name"
	ErrCodeInternalError      ErrorCode = "internal_error"
)

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
