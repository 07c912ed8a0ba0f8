package documents

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func upload(t *testing.T, s *Store, name string, year int, category, body string) *Document {
	t.Helper()
	doc, err := s.Upload(context.Background(), strings.NewReader(body), Meta{Name: name, Year: year, Category: category}, nil)
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return doc
}

func TestUploadDownloadDelete(t *testing.T) {
	s := newTestStore(t)

	var last int64
	doc, err := s.Upload(context.Background(), strings.NewReader("Lohnsteuerbescheinigung"),
		Meta{Name: "lohn.pdf", Year: 2024, Category: "employee-wage-statements"},
		func(n int64) { last = n })
	if err != nil {
		t.Fatal(err)
	}
	if doc.Size != int64(len("Lohnsteuerbescheinigung")) || last != doc.Size {
		t.Errorf("size = %d, progress = %d", doc.Size, last)
	}
	if doc.Type != "application/pdf" {
		t.Errorf("type = %q", doc.Type)
	}

	got, err := s.Get(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "lohn.pdf" || got.Year != 2024 {
		t.Errorf("get = %+v", got)
	}

	rc, err := s.Download(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "Lohnsteuerbescheinigung" {
		t.Errorf("body = %q", body)
	}

	if err := s.Delete(doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
	if err := s.Delete(doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 0 {
		t.Errorf("%d files left behind", len(entries))
	}
}

func TestListFilters(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	upload(t, s, "a.pdf", 2024, "employee-commute", "a")
	upload(t, s, "b.pdf", 2024, "employee-relocation", "b")
	upload(t, s, "c.pdf", 2023, "employee-commute", "c")
	upload(t, s, "d.pdf", 2024, "general-expenses-insurance", "d")

	tests := []struct {
		year     int
		category string
		want     []string
	}{
		{0, "", []string{"d.pdf", "c.pdf", "b.pdf", "a.pdf"}},
		{2024, "", []string{"d.pdf", "b.pdf", "a.pdf"}},
		{2024, "employee", []string{"b.pdf", "a.pdf"}},
		{0, "employee-commute", []string{"c.pdf", "a.pdf"}},
		{2024, "general", []string{"d.pdf"}},
		{2022, "", nil},
	}
	for _, tt := range tests {
		docs, err := s.List(tt.year, tt.category)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, d := range docs {
			got = append(got, d.Name)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("List(%d, %q) = %v, want %v", tt.year, tt.category, got, tt.want)
		}
	}
}

func TestUploadRejects(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Upload(context.Background(), strings.NewReader("x"), Meta{Year: 2024}, nil); err == nil {
		t.Error("missing name accepted")
	}
	if _, err := s.Upload(context.Background(), strings.NewReader("x"), Meta{Name: "x.txt"}, nil); err == nil {
		t.Error("missing year accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Upload(ctx, strings.NewReader("x"), Meta{Name: "x.txt", Year: 2024}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled upload: %v", err)
	}
	docs, _ := s.List(0, "")
	if len(docs) != 0 {
		t.Errorf("failed uploads left %d documents", len(docs))
	}
}

func TestRejectsForeignIDs(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"", "../etc/passwd", "not-a-uuid"} {
		if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) = %v", id, err)
		}
		if _, err := s.Download(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Download(%q) = %v", id, err)
		}
	}
}

func TestListSkipsMalformedSidecars(t *testing.T) {
	s := newTestStore(t)
	upload(t, s, "ok.pdf", 2024, "", "ok")
	if err := os.WriteFile(s.Dir()+"/broken.json", []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	docs, err := s.List(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d", len(docs))
	}
}

func TestWatcherReportsUploads(t *testing.T) {
	s := newTestStore(t)
	w, err := NewWatcher(s)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Watch(ctx)

	doc := upload(t, s, "beleg.pdf", 2024, "", "x")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.ID != doc.ID {
				continue
			}
			if ev.Type == EventRemoved || ev.Document == nil || ev.Document.Name != "beleg.pdf" {
				t.Fatalf("event = %+v", ev)
			}
			return
		case <-deadline:
			t.Fatal("no event for upload")
		}
	}
}
