package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned when no session row matches.
var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is the stored metadata of a session.
type SessionRecord struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Status               string     `json:"status"`
	Rows                 int        `json:"rows"`
	Cols                 int        `json:"cols"`
	Seed                 int64      `json:"seed"`
	TerritoriesPerPlayer int        `json:"territories_per_player,omitempty"`
	Mode                 string     `json:"mode,omitempty"`
	PlayerCount          int        `json:"player_count"`
	CreatedAt            time.Time  `json:"created_at"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
}

// CreateSession stores a new waiting session with the seed its deal uses.
func (db *DB) CreateSession(id, name string, rows, cols int, seed int64) error {
	_, err := db.conn.Exec(`
		INSERT INTO sessions (id, name, status, grid_rows, grid_cols, seed, created_at)
		VALUES (?, ?, 'waiting', ?, ?, ?, ?)
	`, id, name, rows, cols, seed, time.Now())
	if err != nil {
		return fmt.Errorf("create session %s: %w", id, err)
	}
	return nil
}

// AddSessionPlayer records that a player joined at the given index.
func (db *DB) AddSessionPlayer(sessionID string, index int, name string) error {
	_, err := db.conn.Exec(`
		INSERT INTO session_players (session_id, player_index, name, joined_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, index, name, time.Now())
	if err != nil {
		return fmt.Errorf("add player %d to %s: %w", index, sessionID, err)
	}
	return nil
}

// MarkSessionStarted records the distribution parameters of a started session.
func (db *DB) MarkSessionStarted(id string, territoriesPerPlayer int, mode string) error {
	res, err := db.conn.Exec(`
		UPDATE sessions
		SET status = 'started', territories_per_player = ?, mode = ?, started_at = ?
		WHERE id = ?
	`, territoriesPerPlayer, mode, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// GetSession loads one session with its player count.
func (db *DB) GetSession(id string) (*SessionRecord, error) {
	row := db.conn.QueryRow(sessionQuery+` WHERE s.id = ? GROUP BY s.id`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return rec, err
}

// ListSessions returns every stored session, newest first.
func (db *DB) ListSessions() ([]*SessionRecord, error) {
	rows, err := db.conn.Query(sessionQuery + ` GROUP BY s.id ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const sessionQuery = `
	SELECT s.id, s.name, s.status, s.grid_rows, s.grid_cols, s.seed,
		COALESCE(s.territories_per_player, 0), COALESCE(s.mode, ''),
		COUNT(p.player_index), s.created_at, s.started_at
	FROM sessions s
	LEFT JOIN session_players p ON p.session_id = s.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*SessionRecord, error) {
	rec := &SessionRecord{}
	var startedAt sql.NullTime
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Status, &rec.Rows, &rec.Cols, &rec.Seed,
		&rec.TerritoriesPerPlayer, &rec.Mode, &rec.PlayerCount, &rec.CreatedAt, &startedAt); err != nil {
		return nil, err
	}
	if startedAt.Valid {
		rec.StartedAt = &startedAt.Time
	}
	return rec, nil
}
