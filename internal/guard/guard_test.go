package guard

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"yatube/internal/models"
)

func TestAuthenticated_RedirectsToLogin(t *testing.T) {
	g := New("/auth/login/")

	d := g.CreatePost(nil)
	assert.Equal(t, Login, d.Outcome)
	assert.Equal(t, "/auth/login/?next=/create/", d.Location)
	assert.ErrorIs(t, d.Err, models.ErrAuthenticationRequired)

	d = g.FollowFeed(nil)
	assert.Equal(t, "/auth/login/?next=/follow/", d.Location)

	d = g.Comment(nil, 3)
	assert.Equal(t, "/auth/login/?next=/posts/3/comment/", d.Location)

	d = g.Unfollow(nil, "auth")
	assert.Equal(t, "/auth/login/?next=/profile/auth/unfollow/", d.Location)

	assert.True(t, g.CreatePost(&models.User{ID: 1}).Allowed())
}

func TestEditPost(t *testing.T) {
	g := New("/auth/login/")
	post := &models.Post{ID: 5, AuthorID: 1}

	d := g.EditPost(nil, post)
	assert.Equal(t, Login, d.Outcome)
	assert.Equal(t, "/auth/login/?next=/posts/5/edit/", d.Location)

	d = g.EditPost(&models.User{ID: 2}, post)
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, "/posts/5/", d.Location)
	assert.ErrorIs(t, d.Err, models.ErrForbidden)

	d = g.EditPost(&models.User{ID: 1}, post)
	assert.True(t, d.Allowed())
	assert.NoError(t, d.Err)
}

func TestFollow(t *testing.T) {
	g := New("/auth/login/")
	author := &models.User{ID: 1, Username: "auth"}

	d := g.Follow(nil, author)
	assert.Equal(t, Login, d.Outcome)
	assert.Equal(t, "/auth/login/?next=/profile/auth/follow/", d.Location)

	d = g.Follow(author, author)
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, "/follow/", d.Location)
	assert.NoError(t, d.Err)

	assert.True(t, g.Follow(&models.User{ID: 2}, author).Allowed())
}

func TestFromError(t *testing.T) {
	g := New("/login")

	assert.True(t, g.FromError(nil, "/").Allowed())

	d := g.FromError(fmt.Errorf("post 9: %w", models.ErrNotFound), "/posts/9/")
	assert.Equal(t, NotFound, d.Outcome)

	d = g.FromError(models.ErrAuthenticationRequired, "/follow/")
	assert.Equal(t, Login, d.Outcome)
	assert.Equal(t, "/login?next=/follow/", d.Location)

	d = g.FromError(errors.New("disk on fire"), "/")
	assert.Equal(t, Internal, d.Outcome)
	assert.Equal(t, "internal", d.Outcome.String())
}
