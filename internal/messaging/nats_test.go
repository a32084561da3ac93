package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/internal/config"
	"yatube/internal/logging"
	"yatube/internal/models"
)

type failing struct{}

func (failing) Publish(context.Context, string, any) error { return errors.New("broker down") }

func TestLogged_SwallowsErrors(t *testing.T) {
	p := Logged{Next: failing{}, Logger: logging.Discard()}
	assert.NoError(t, p.Publish(context.Background(), SubjectPostCreated, struct{}{}))
}

func TestNewPostEvent(t *testing.T) {
	group := uint(3)
	post := &models.Post{
		ID:        7,
		Text:      "hello",
		AuthorID:  2,
		Author:    models.User{ID: 2, Username: "auth"},
		GroupID:   &group,
		CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(NewPostEvent(post))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"post_id": 7,
		"author_id": 2,
		"author": "auth",
		"group_id": 3,
		"text": "hello",
		"timestamp": "2026-02-01T10:00:00Z"
	}`, string(data))

	post.Image = "abc"
	event := NewPostEvent(post)
	require.NotNil(t, event.Image)
	assert.Equal(t, "abc", *event.Image)
}

func TestNATS_Messaging(t *testing.T) {
	// Skip if no NATS connection
	if os.Getenv("NATS_HOST") == "" {
		t.Skip("Skipping test - no NATS connection configured")
	}

	port := os.Getenv("NATS_PORT")
	if port == "" {
		port = "4222"
	}
	conn, err := Connect(config.NATS{Host: os.Getenv("NATS_HOST"), Port: port})
	require.NoError(t, err)
	defer conn.Close()

	received := make(chan string, 1)
	sub, err := Subscribe(conn, "follow.*", func(subject string, _ []byte) {
		received <- subject
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	p := NewNATSPublisher(conn)
	err = p.Publish(context.Background(), SubjectFollowCreated, NewFollowEvent("a", "b", time.Now()))
	require.NoError(t, err)

	select {
	case subject := <-received:
		assert.Equal(t, SubjectFollowCreated, subject)
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for NATS message")
	}
}
