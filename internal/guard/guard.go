// Package guard decides whether the current actor may perform an action,
// and where to send them when not. Every mutating handler asks the guard
// before touching the store.
package guard

import (
	"errors"

	"yatube/internal/models"
	"yatube/internal/urls"
)

type Outcome int

const (
	// Allow lets the action proceed.
	Allow Outcome = iota
	// Login sends an anonymous actor to the login page.
	Login
	// Redirect sends the actor to a safe view instead of performing the
	// action. Not an error page.
	Redirect
	// NotFound answers 404.
	NotFound
	// Internal is an unexpected failure.
	Internal
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Login:
		return "login"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome  Outcome
	Location string
	// Err is the reason for a denial, nil on Allow.
	Err error
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

var allow = Decision{Outcome: Allow}

type Guard struct {
	loginURL string
}

func New(loginURL string) *Guard {
	return &Guard{loginURL: loginURL}
}

// Authenticated requires a signed-in actor. next is the path to come back
// to after login.
func (g *Guard) Authenticated(actor *models.User, next string) Decision {
	if actor == nil {
		return Decision{
			Outcome:  Login,
			Location: urls.Login(g.loginURL, next),
			Err:      models.ErrAuthenticationRequired,
		}
	}
	return allow
}

func (g *Guard) CreatePost(actor *models.User) Decision {
	return g.Authenticated(actor, urls.Create())
}

func (g *Guard) Comment(actor *models.User, postID uint) Decision {
	return g.Authenticated(actor, urls.PostComment(postID))
}

func (g *Guard) FollowFeed(actor *models.User) Decision {
	return g.Authenticated(actor, urls.FollowIndex())
}

// EditPost allows only the author. Anyone else is sent to the read-only
// detail page.
func (g *Guard) EditPost(actor *models.User, post *models.Post) Decision {
	if d := g.Authenticated(actor, urls.PostEdit(post.ID)); !d.Allowed() {
		return d
	}
	if actor.ID != post.AuthorID {
		return Decision{
			Outcome:  Redirect,
			Location: urls.Post(post.ID),
			Err:      models.ErrForbidden,
		}
	}
	return allow
}

// Follow turns a self-follow into a quiet redirect to the follow feed.
func (g *Guard) Follow(actor, author *models.User) Decision {
	if d := g.Authenticated(actor, urls.Follow(author.Username)); !d.Allowed() {
		return d
	}
	if actor.ID == author.ID {
		return Decision{Outcome: Redirect, Location: urls.FollowIndex()}
	}
	return allow
}

func (g *Guard) Unfollow(actor *models.User, username string) Decision {
	return g.Authenticated(actor, urls.Unfollow(username))
}

// FromError maps a store or composer error onto a decision.
func (g *Guard) FromError(err error, next string) Decision {
	switch {
	case err == nil:
		return allow
	case errors.Is(err, models.ErrNotFound):
		return Decision{Outcome: NotFound, Err: err}
	case errors.Is(err, models.ErrAuthenticationRequired):
		return Decision{Outcome: Login, Location: urls.Login(g.loginURL, next), Err: err}
	default:
		return Decision{Outcome: Internal, Err: err}
	}
}
