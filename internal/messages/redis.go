package messages

import (
	"context"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisSink appends messages to a Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
}

// ConnectRedis creates a Redis client from a URL.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisSink connects to redisURL. The connection is established lazily
// on the first Send.
func NewRedisSink(redisURL, stream string) (*RedisSink, error) {
	client, err := ConnectRedis(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisSink{client: client, stream: stream}, nil
}

// Send implements Sink.
func (s *RedisSink) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	_, err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":      msg.ID,
			"year":    strconv.Itoa(msg.Year),
			"author":  msg.Author,
			"topic":   msg.Topic,
			"payload": string(payload),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}

// Close implements Sink.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
