package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yatube/internal/guard"
)

func (s *Server) page(c *gin.Context, code int, name string, data gin.H) {
	body, err := s.views.Render(name, data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(code, "text/html; charset=utf-8", body)
}

func (s *Server) notFound(c *gin.Context) {
	body, err := s.views.Render("not_found", gin.H{
		"Title": "Page not found",
		"Path":  c.Request.URL.Path,
		"Actor": currentActor(c),
	})
	if err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", body)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	body, rerr := s.views.Render("server_error", gin.H{"Title": "Server error"})
	if rerr != nil {
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", body)
}

// deny writes the response for a non-allow decision and reports whether it
// did so.
func (s *Server) deny(c *gin.Context, d guard.Decision) bool {
	switch d.Outcome {
	case guard.Allow:
		return false
	case guard.Login, guard.Redirect:
		c.Redirect(http.StatusFound, d.Location)
	case guard.NotFound:
		s.notFound(c)
	default:
		s.fail(c, d.Err)
	}
	return true
}

// handleErr answers a failed store or composer call.
func (s *Server) handleErr(c *gin.Context, err error) {
	if !s.deny(c, s.guard.FromError(err, c.Request.URL.RequestURI())) {
		s.fail(c, err)
	}
}

// postID parses the :id route parameter; a malformed id is a 404.
func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
