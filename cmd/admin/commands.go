package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"yatube/internal/app"
	"yatube/internal/cache"
	"yatube/internal/store"
)

type action func(ctx context.Context, a *app.App, out io.Writer) error

type command struct {
	summary string
	// flags registers the command's flags and returns the action that
	// reads them after parsing.
	flags func(fs *pflag.FlagSet) action
}

var commandOrder = []string{
	"create-user", "delete-user", "create-group", "delete-group", "token", "clear-cache",
}

var commands = map[string]command{
	"create-user": {
		summary: "register a user",
		flags: func(fs *pflag.FlagSet) action {
			username := fs.String("username", "", "username")
			return func(ctx context.Context, a *app.App, out io.Writer) error {
				u, err := a.Store.CreateUser(ctx, *username)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "created user %s (id %d)\n", u.Username, u.ID)
				return nil
			}
		},
	},
	"delete-user": {
		summary: "delete a user with their posts, comments and follows",
		flags: func(fs *pflag.FlagSet) action {
			username := fs.String("username", "", "username")
			return func(ctx context.Context, a *app.App, out io.Writer) error {
				u, err := a.Store.UserByUsername(ctx, *username)
				if err != nil {
					return err
				}
				if err := a.Store.DeleteUser(ctx, u.ID); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted user %s\n", u.Username)
				return nil
			}
		},
	},
	"create-group": {
		summary: "create a community group",
		flags: func(fs *pflag.FlagSet) action {
			var in store.GroupInput
			fs.StringVar(&in.Title, "title", "", "group title")
			fs.StringVar(&in.Slug, "slug", "", "URL slug")
			fs.StringVar(&in.Description, "description", "", "group description")
			return func(ctx context.Context, a *app.App, out io.Writer) error {
				g, err := a.Store.CreateGroup(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "created group %s (/group/%s/)\n", g.Title, g.Slug)
				return nil
			}
		},
	},
	"delete-group": {
		summary: "delete a group; its posts stay without a group",
		flags: func(fs *pflag.FlagSet) action {
			slug := fs.String("slug", "", "URL slug")
			return func(ctx context.Context, a *app.App, out io.Writer) error {
				if err := a.Store.DeleteGroup(ctx, *slug); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted group %s\n", *slug)
				return nil
			}
		},
	},
	"token": {
		summary: "issue a session token for a user",
		flags: func(fs *pflag.FlagSet) action {
			username := fs.String("username", "", "username")
			ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
			return func(ctx context.Context, a *app.App, out io.Writer) error {
				if *ttl <= 0 {
					return errors.New("--ttl must be positive")
				}
				u, err := a.Store.UserByUsername(ctx, *username)
				if err != nil {
					return err
				}
				token, err := a.Tokens.GenerateTokenWithExpiry(u.Username, a.Clock.Now().Add(*ttl))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, token)
				return nil
			}
		},
	},
	"clear-cache": {
		summary: "drop every cached index page (needs the shared Redis cache)",
		flags: func(fs *pflag.FlagSet) action {
			return func(ctx context.Context, a *app.App, out io.Writer) error {
				// A process-local cache here is not the server's cache.
				if _, ok := a.Cache.(*cache.Memory); ok {
					return errors.New("clear-cache needs REDIS_HOST: the server's in-memory cache cannot be reached from here")
				}
				if err := a.Cache.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "cache cleared")
				return nil
			}
		},
	},
}
