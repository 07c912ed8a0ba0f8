package messages

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/steuerklar/steuerklar/internal/config"
)

func TestNewMessage(t *testing.T) {
	if _, err := NewMessage(2024, "erika", "", "   "); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("err = %v", err)
	}
	m, err := NewMessage(2024, "erika", "employee-commute", "  Frage zur Pendlerpauschale ")
	if err != nil {
		t.Fatal(err)
	}
	if m.ID == "" || m.SentAt.IsZero() || m.Body != "Frage zur Pendlerpauschale" {
		t.Fatalf("message = %+v", m)
	}
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "messages.jsonl")

	for i := 0; i < 2; i++ {
		sink, err := NewFileSink(path)
		if err != nil {
			t.Fatal(err)
		}
		m, _ := NewMessage(2024, "erika", "", "Nachricht")
		if err := sink.Send(context.Background(), m); err != nil {
			t.Fatal(err)
		}
		if err := sink.Close(); err != nil {
			t.Fatal(err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m Message
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if m.Year != 2024 || m.Body != "Nachricht" {
			t.Errorf("line %d = %+v", lines, m)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("lines = %d, want 2", lines)
	}
}

func TestNewSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSink(config.MessagesConfig{Sink: "file", Path: filepath.Join(dir, "m.jsonl")})
	if err != nil {
		t.Fatal(err)
	}
	sink.Close()
	if _, ok := sink.(*FileSink); !ok {
		t.Errorf("sink = %T", sink)
	}

	rs, err := NewSink(config.MessagesConfig{Sink: "redis", RedisURL: "redis://localhost:6379/0", Stream: "s"})
	if err != nil {
		t.Fatal(err)
	}
	rs.Close()

	if _, err := NewSink(config.MessagesConfig{Sink: "fax"}); err == nil {
		t.Error("unknown sink accepted")
	}
	if _, err := NewSink(config.MessagesConfig{Sink: "redis", RedisURL: "::nonsense"}); err == nil {
		t.Error("bad redis url accepted")
	}
}
