package web

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"yatube/internal/models"
)

const (
	actorKey    = "actor"
	tokenCookie = "token"
)

// authenticate resolves the session token, if any, to a user. Requests
// without a valid token carry on anonymously; protected handlers ask the
// guard what to do with them.
func (s *Server) authenticate(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		token, _ = c.Cookie(tokenCookie)
	}
	if token == "" {
		c.Next()
		return
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		s.log.Debug("rejected session token", "error", err)
		c.Next()
		return
	}
	user, err := s.store.UserByUsername(c.Request.Context(), claims.Username)
	switch {
	case err == nil:
		c.Set(actorKey, user)
	case errors.Is(err, models.ErrNotFound):
		s.log.Debug("token for unknown user", "username", claims.Username)
	default:
		s.log.Error("load session user", "error", err)
	}
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// currentActor returns the signed-in user or nil.
func currentActor(c *gin.Context) *models.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
