package database

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action is one journal entry.
type Action struct {
	ID          int64           `json:"id"`
	SessionID   string          `json:"session_id"`
	PlayerIndex int             `json:"player_index"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Accepted    bool            `json:"accepted"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LogAction appends an action and whether the arena accepted it.
func (db *DB) LogAction(sessionID string, playerIndex int, actionType string, payload any, accepted bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", actionType, err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO actions (session_id, player_index, action_type, payload_json, accepted, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, playerIndex, actionType, string(data), accepted, time.Now())
	return err
}

// GetActions returns a session's journal in insertion order.
func (db *DB) GetActions(sessionID string) ([]*Action, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_id, player_index, action_type, payload_json, accepted, created_at
		FROM actions
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Action
	for rows.Next() {
		a := &Action{}
		var payload string
		if err := rows.Scan(&a.ID, &a.SessionID, &a.PlayerIndex, &a.Type, &payload, &a.Accepted, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Payload = json.RawMessage(payload)
		out = append(out, a)
	}
	return out, rows.Err()
}
