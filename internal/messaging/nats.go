package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"yatube/internal/config"
	"yatube/internal/models"
)

// Subjects of content events.
const (
	SubjectPostCreated    = "post.created"
	SubjectPostUpdated    = "post.updated"
	SubjectCommentCreated = "comment.created"
	SubjectFollowCreated  = "follow.created"
	SubjectFollowDeleted  = "follow.deleted"
)

// Publisher emits content events after successful writes. Publishing is
// best effort: a failed publish never undoes the write.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// Connect dials the configured NATS server.
func Connect(cfg config.NATS) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.URL(), nats.Name("yatube"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// NATSPublisher publishes JSON events on a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	return p.conn.Publish(subject, data)
}

// Subscribe delivers content events matching subject (wildcards allowed)
// to handler.
func Subscribe(conn *nats.Conn, subject string, handler func(subject string, data []byte)) (*nats.Subscription, error) {
	return conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Logged wraps a Publisher and logs failures instead of returning them.
type Logged struct {
	Next   Publisher
	Logger *slog.Logger
}

func (l Logged) Publish(ctx context.Context, subject string, event any) error {
	if err := l.Next.Publish(ctx, subject, event); err != nil {
		l.Logger.Warn("publish event failed", "subject", subject, "error", err)
	}
	return nil
}

// Event structures
type PostEvent struct {
	PostID    uint    `json:"post_id"`
	AuthorID  uint    `json:"author_id"`
	Author    string  `json:"author"`
	GroupID   *uint   `json:"group_id,omitempty"`
	Text      string  `json:"text"`
	Image     *string `json:"image,omitempty"`
	Timestamp string  `json:"timestamp"`
}

type CommentEvent struct {
	CommentID uint   `json:"comment_id"`
	PostID    uint   `json:"post_id"`
	AuthorID  uint   `json:"author_id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type FollowEvent struct {
	User      string `json:"user"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

func NewPostEvent(post *models.Post) PostEvent {
	event := PostEvent{
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		Author:    post.Author.Username,
		GroupID:   post.GroupID,
		Text:      post.Text,
		Timestamp: post.CreatedAt.UTC().Format(time.RFC3339),
	}
	if post.Image != "" {
		image := post.Image
		event.Image = &image
	}
	return event
}

func NewCommentEvent(c *models.Comment) CommentEvent {
	return CommentEvent{
		CommentID: c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Text:      c.Text,
		Timestamp: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func NewFollowEvent(user, author string, at time.Time) FollowEvent {
	return FollowEvent{User: user, Author: author, Timestamp: at.UTC().Format(time.RFC3339)}
}
