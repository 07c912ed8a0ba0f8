// Package messages delivers taxpayer messages to the tax office.
package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steuerklar/steuerklar/internal/config"
)

// ErrEmptyBody is returned for messages without text.
var ErrEmptyBody = errors.New("message body is empty")

// Message is one note from the taxpayer to the advisor. Topic is an encoded
// address of the input screen it refers to, if any.
type Message struct {
	ID     string    `json:"id"`
	Year   int       `json:"year"`
	Author string    `json:"author"`
	Topic  string    `json:"topic,omitempty"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// NewMessage stamps a message with an id and the current time.
func NewMessage(year int, author, topic, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyBody
	}
	return Message{
		ID:     uuid.NewString(),
		Year:   year,
		Author: author,
		Topic:  topic,
		Body:   body,
		SentAt: time.Now().UTC(),
	}, nil
}

// Sink accepts messages. Sinks are append-only.
type Sink interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// NewSink opens the sink selected by cfg.
func NewSink(cfg config.MessagesConfig) (Sink, error) {
	switch cfg.Sink {
	case "", "file":
		return NewFileSink(config.Resolve(cfg.Path))
	case "redis":
		return NewRedisSink(cfg.RedisURL, cfg.Stream)
	default:
		return nil, fmt.Errorf("unknown message sink %q", cfg.Sink)
	}
}
