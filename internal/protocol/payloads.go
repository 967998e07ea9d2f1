package protocol

import "territory-arena/internal/game"

// ==================== System Payloads ====================

// WelcomePayload is sent when a client connects.
type WelcomePayload struct {
	ServerVersion string `json:"server_version"`
	Rows          int    `json:"rows"`
	Cols          int    `json:"cols"`
}

// ==================== Session Payloads ====================

// CreateSessionPayload is sent to create a new session.
type CreateSessionPayload struct {
	Name string `json:"name"`
}

// SessionCreatedPayload is the response when a session is created.
type SessionCreatedPayload struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// JoinSessionPayload is sent to join a waiting session.
type JoinSessionPayload struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
}

// JoinedSessionPayload tells a client which player index it controls.
type JoinedSessionPayload struct {
	SessionID   string `json:"session_id"`
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
}

// StartSessionPayload distributes territories and starts play.
// Mode is "sequential" or "random"; TerritoriesPerPlayer 0 uses the server default.
type StartSessionPayload struct {
	TerritoriesPerPlayer int    `json:"territories_per_player"`
	Mode                 string `json:"mode"`
}

// SessionStartedPayload is broadcast to every client in the session.
type SessionStartedPayload struct {
	SessionID            string             `json:"session_id"`
	TerritoriesPerPlayer int                `json:"territories_per_player"`
	Mode                 string             `json:"mode"`
	Arena                game.ArenaSnapshot `json:"arena"`
}

// SessionListPayload lists the sessions on the server.
type SessionListPayload struct {
	Sessions []SessionListItem `json:"sessions"`
}

// SessionListItem is one entry in a session list.
type SessionListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	PlayerCount int    `json:"player_count"`
}

// ==================== Action Payloads ====================

// ReinforcePayload places Amount units on the territory at Target.
type ReinforcePayload struct {
	Target game.Coordinate `json:"target"`
	Amount int             `json:"amount"`
}

// MoveUnitsPayload transfers Units from one owned territory to another.
type MoveUnitsPayload struct {
	From  game.Coordinate `json:"from"`
	To    game.Coordinate `json:"to"`
	Units int             `json:"units"`
}

// ActionResultPayload answers reinforce, reinforce_evenly and move_units.
// Placed is only set for reinforce_evenly.
type ActionResultPayload struct {
	Action      MessageType `json:"action"`
	Success     bool        `json:"success"`
	PlayerIndex int         `json:"player_index"`
	Placed      int         `json:"placed,omitempty"`
	Pool        int         `json:"pool"`
}

// TurnChangedPayload is broadcast when a player ends their turn.
type TurnChangedPayload struct {
	PlayerIndex int `json:"player_index"`
	Granted     int `json:"granted"`
}

// GetArenaPayload asks for a session's arena. An empty SessionID means the
// session the client joined.
type GetArenaPayload struct {
	SessionID string `json:"session_id,omitempty"`
}

// ArenaStatePayload carries a full snapshot of a session's arena.
type ArenaStatePayload struct {
	SessionID string             `json:"session_id"`
	Turn      int                `json:"turn"`
	Arena     game.ArenaSnapshot `json:"arena"`
}
