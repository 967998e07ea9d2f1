package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"territory-arena/internal/database"
	"territory-arena/internal/protocol"
	"territory-arena/internal/session"
)

// handleListSessions returns the live sessions and every stored one,
// including sessions that have since closed.
func (s *Server) handleListSessions(c *gin.Context) {
	history, err := s.db.ListSessions()
	if err != nil {
		log.Error().Err(err).Msg("read session history")
		writeAPIError(c, err)
		return
	}
	if history == nil {
		history = []*database.SessionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": s.sessions.List(),
		"history":  history,
	})
}

// handleGetSession returns the stored record of a session, live or closed.
func (s *Server) handleGetSession(c *gin.Context) {
	rec, err := s.db.GetSession(c.Param("id"))
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleGetArena returns a live session's arena snapshot.
func (s *Server) handleGetArena(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, arenaState(sess))
}

// handleGetActions returns a session's journal from the database.
func (s *Server) handleGetActions(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.db.GetSession(id); err != nil {
		writeAPIError(c, err)
		return
	}
	actions, err := s.db.GetActions(id)
	if err != nil {
		log.Error().Err(err).Str("session", id).Msg("read action journal")
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

func writeAPIError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, database.ErrSessionNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, protocol.ErrorPayload{Code: errorCode(err), Message: err.Error()})
}
