package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yatube/internal/messaging"
	"yatube/internal/urls"
)

func (s *Server) profileFollow(c *gin.Context) {
	username := c.Param("username")
	actor := currentActor(c)
	if s.deny(c, s.guard.Authenticated(actor, urls.Follow(username))) {
		return
	}
	ctx := c.Request.Context()
	author, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		s.handleErr(c, err)
		return
	}
	if s.deny(c, s.guard.Follow(actor, author)) {
		return
	}

	if _, err := s.store.Follow(ctx, actor.ID, author.ID); err != nil {
		s.handleErr(c, err)
		return
	}
	s.events.Publish(ctx, messaging.SubjectFollowCreated, messaging.NewFollowEvent(actor.Username, author.Username, s.clock.Now()))
	c.Redirect(http.StatusFound, urls.Profile(username))
}

func (s *Server) profileUnfollow(c *gin.Context) {
	username := c.Param("username")
	actor := currentActor(c)
	if s.deny(c, s.guard.Unfollow(actor, username)) {
		return
	}
	ctx := c.Request.Context()
	if err := s.store.Unfollow(ctx, actor.ID, username); err != nil {
		s.handleErr(c, err)
		return
	}
	s.events.Publish(ctx, messaging.SubjectFollowDeleted, messaging.NewFollowEvent(actor.Username, username, s.clock.Now()))
	c.Redirect(http.StatusFound, urls.Profile(username))
}
