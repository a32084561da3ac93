// Package feed builds the paginated post listings: the public index, a
// group, an author profile, and a reader's follow feed. All four share the
// same ordering (newest first) and the same pagination.
package feed

import (
	"context"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/store"
)

// Source is the slice of the content store the composer reads from.
type Source interface {
	CountPosts(ctx context.Context, f store.PostFilter) (int, error)
	ListPosts(ctx context.Context, f store.PostFilter, offset, limit int) ([]models.Post, error)
	GroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	Followers(ctx context.Context, authorID uint) (int, error)
}

type Feed struct {
	Posts []models.Post
	Page  Page
}

type GroupFeed struct {
	Feed
	Group *models.Group
}

type ProfileFeed struct {
	Feed
	Author    *models.User
	Following bool
	Followers int
}

type Composer struct {
	source   Source
	pageSize int
}

func NewComposer(source Source, pageSize int) *Composer {
	return &Composer{source: source, pageSize: pageSize}
}

func (c *Composer) PageSize() int {
	return c.pageSize
}

func (c *Composer) compose(ctx context.Context, f store.PostFilter, page int) (Feed, error) {
	count, err := c.source.CountPosts(ctx, f)
	if err != nil {
		return Feed{}, err
	}
	p := Paginate(count, c.pageSize, page)
	if p.Limit == 0 {
		return Feed{Posts: []models.Post{}, Page: p}, nil
	}
	posts, err := c.source.ListPosts(ctx, f, p.Offset, p.Limit)
	if err != nil {
		return Feed{}, err
	}
	return Feed{Posts: posts, Page: p}, nil
}

// Index lists every post.
func (c *Composer) Index(ctx context.Context, page int) (*Feed, error) {
	feed, err := c.compose(ctx, store.PostFilter{}, page)
	if err != nil {
		return nil, fmt.Errorf("index feed: %w", err)
	}
	return &feed, nil
}

// Group lists posts in the group with the given slug.
func (c *Composer) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := c.source.GroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	feed, err := c.compose(ctx, store.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, fmt.Errorf("group feed: %w", err)
	}
	return &GroupFeed{Feed: feed, Group: group}, nil
}

// Profile lists posts by one author and reports whether viewer follows
// them. viewer may be nil.
func (c *Composer) Profile(ctx context.Context, username string, viewer *models.User, page int) (*ProfileFeed, error) {
	author, err := c.source.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	feed, err := c.compose(ctx, store.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, fmt.Errorf("profile feed: %w", err)
	}

	result := &ProfileFeed{Feed: feed, Author: author}
	if viewer != nil {
		result.Following, err = c.source.IsFollowing(ctx, viewer.ID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	result.Followers, err = c.source.Followers(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FollowFeed lists posts by every author viewer follows.
func (c *Composer) FollowFeed(ctx context.Context, viewer *models.User, page int) (*Feed, error) {
	if viewer == nil {
		return nil, models.ErrAuthenticationRequired
	}
	feed, err := c.compose(ctx, store.PostFilter{FollowerID: &viewer.ID}, page)
	if err != nil {
		return nil, fmt.Errorf("follow feed: %w", err)
	}
	return &feed, nil
}
