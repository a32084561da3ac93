package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"yatube/internal/cache"
	"yatube/internal/feed"
)

// index is the only cached view. It is rendered without the actor so the
// same bytes can be served to everyone for the cache lifetime.
func (s *Server) index(c *gin.Context) {
	page := feed.ParsePage(c.Query("page"))
	body, err := s.pages.Load(c.Request.Context(), cache.IndexKey(page), func(ctx context.Context) ([]byte, error) {
		f, err := s.composer.Index(ctx, page)
		if err != nil {
			return nil, err
		}
		return s.views.Render("index", gin.H{
			"Title": "Latest updates",
			"Feed":  f,
		})
	})
	if err != nil {
		s.handleErr(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (s *Server) groupPosts(c *gin.Context) {
	f, err := s.composer.Group(c.Request.Context(), c.Param("slug"), feed.ParsePage(c.Query("page")))
	if err != nil {
		s.handleErr(c, err)
		return
	}
	s.page(c, http.StatusOK, "group", gin.H{
		"Title": f.Group.Title,
		"Actor": currentActor(c),
		"Group": f.Group,
		"Feed":  &f.Feed,
	})
}

func (s *Server) profile(c *gin.Context) {
	actor := currentActor(c)
	f, err := s.composer.Profile(c.Request.Context(), c.Param("username"), actor, feed.ParsePage(c.Query("page")))
	if err != nil {
		s.handleErr(c, err)
		return
	}
	s.page(c, http.StatusOK, "profile", gin.H{
		"Title":     "Posts by " + f.Author.Username,
		"Actor":     actor,
		"Author":    f.Author,
		"Following": f.Following,
		"Followers": f.Followers,
		"Feed":      &f.Feed,
	})
}

func (s *Server) followIndex(c *gin.Context) {
	actor := currentActor(c)
	if s.deny(c, s.guard.FollowFeed(actor)) {
		return
	}
	f, err := s.composer.FollowFeed(c.Request.Context(), actor, feed.ParsePage(c.Query("page")))
	if err != nil {
		s.handleErr(c, err)
		return
	}
	s.page(c, http.StatusOK, "follow", gin.H{
		"Title": "Authors you follow",
		"Actor": actor,
		"Feed":  f,
	})
}
