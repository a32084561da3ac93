package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/clock"
	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/store"
)

type fixture struct {
	store  *store.Store
	clock  *clock.FakeClock
	author *models.User
	reader *models.User
	group  *models.Group
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	s := store.New(db, c)
	ctx := context.Background()

	author, err := s.CreateUser(ctx, "auth")
	require.NoError(t, err)
	reader, err := s.CreateUser(ctx, "reader")
	require.NoError(t, err)
	group, err := s.CreateGroup(ctx, store.GroupInput{Title: "Test group", Slug: "test-slug"})
	require.NoError(t, err)

	return &fixture{store: s, clock: c, author: author, reader: reader, group: group}
}

func (f *fixture) posts(t *testing.T, n int, author *models.User, group *models.Group) {
	t.Helper()
	for i := 0; i < n; i++ {
		f.clock.Advance(time.Minute)
		in := store.PostInput{Text: fmt.Sprintf("post %d by %s", i, author.Username)}
		if group != nil {
			in.GroupID = &group.ID
		}
		_, err := f.store.CreatePost(context.Background(), author.ID, in)
		require.NoError(t, err)
	}
}

func TestComposer_IndexPaginates(t *testing.T) {
	f := newFixture(t)
	f.posts(t, 13, f.author, nil)
	c := NewComposer(f.store, 10)
	ctx := context.Background()

	first, err := c.Index(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, "post 12 by auth", first.Posts[0].Text)
	assert.Equal(t, 2, first.Page.NumPages)

	second, err := c.Index(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)
	assert.Equal(t, "post 0 by auth", second.Posts[2].Text)

	beyond, err := c.Index(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, beyond.Page.Number)
	assert.Len(t, beyond.Posts, 3)
}

func TestComposer_Group(t *testing.T) {
	f := newFixture(t)
	f.posts(t, 2, f.author, f.group)
	f.posts(t, 3, f.author, nil)
	c := NewComposer(f.store, 10)
	ctx := context.Background()

	feed, err := c.Group(ctx, "test-slug", 1)
	require.NoError(t, err)
	assert.Equal(t, "test-slug", feed.Group.Slug)
	assert.Len(t, feed.Posts, 2)
	for _, p := range feed.Posts {
		require.NotNil(t, p.Group)
		assert.Equal(t, f.group.ID, p.Group.ID)
	}

	_, err = c.Group(ctx, "missing", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestComposer_Profile(t *testing.T) {
	f := newFixture(t)
	f.posts(t, 4, f.author, nil)
	f.posts(t, 1, f.reader, nil)
	c := NewComposer(f.store, 10)
	ctx := context.Background()

	anon, err := c.Profile(ctx, "auth", nil, 1)
	require.NoError(t, err)
	assert.Len(t, anon.Posts, 4)
	assert.False(t, anon.Following)
	assert.Equal(t, "auth", anon.Author.Username)

	viewed, err := c.Profile(ctx, "auth", f.reader, 1)
	require.NoError(t, err)
	assert.False(t, viewed.Following)

	_, err = f.store.Follow(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)
	viewed, err = c.Profile(ctx, "auth", f.reader, 1)
	require.NoError(t, err)
	assert.True(t, viewed.Following)
	assert.Equal(t, 1, viewed.Followers)

	_, err = c.Profile(ctx, "ghost", nil, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestComposer_FollowFeed(t *testing.T) {
	f := newFixture(t)
	f.posts(t, 2, f.author, nil)
	c := NewComposer(f.store, 10)
	ctx := context.Background()

	_, err := c.FollowFeed(ctx, nil, 1)
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)

	empty, err := c.FollowFeed(ctx, f.reader, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)

	_, err = f.store.Follow(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)
	_, err = f.store.Follow(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)

	feed, err := c.FollowFeed(ctx, f.reader, 1)
	require.NoError(t, err)
	assert.Len(t, feed.Posts, 2)

	// The author does not see their own posts in their follow feed.
	own, err := c.FollowFeed(ctx, f.author, 1)
	require.NoError(t, err)
	assert.Empty(t, own.Posts)
}
