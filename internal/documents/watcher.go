package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the store directory and reports document changes.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher sets up an fsnotify watch on the store directory.
func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", store.Dir(), err)
	}
	return &Watcher{
		store:    store,
		watcher:  fsw,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Watch starts watching and returns a channel of document events. Events for
// the same id within one debounce window are coalesced into one. The
// channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) <-chan Event {
	out := make(chan Event, 64)

	go func() {
		defer close(out)

		var order []string
		pending := make(map[string]fsnotify.Event)

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}

		flush := func() bool {
			for _, id := range order {
				ev := w.toEvent(id, pending[id])
				select {
				case out <- ev:
				case <-ctx.Done():
					return false
				}
			}
			order = order[:0]
			clear(pending)
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				base := filepath.Base(ev.Name)
				// Blobs and temp files are noise; the sidecar marks a document.
				if strings.HasPrefix(base, ".tmp-") || !strings.HasSuffix(base, metaExt) {
					continue
				}
				id := strings.TrimSuffix(base, metaExt)
				if _, seen := pending[id]; !seen {
					order = append(order, id)
				}
				pending[id] = ev
				timer.Reset(w.debounce)

			case <-timer.C:
				if !flush() {
					return
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.store.logger.Warn("document watcher error", "err", err)
			}
		}
	}()

	return out
}

// Close stops watching and cleans up resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// toEvent classifies the last fsnotify event seen for id. The sidecar is
// re-read so a create that was followed by a remove reports the removal.
func (w *Watcher) toEvent(id string, ev fsnotify.Event) Event {
	out := Event{ID: id, Time: time.Now()}

	doc, err := w.store.Get(id)
	switch {
	case err != nil:
		out.Type = EventRemoved
	case ev.Has(fsnotify.Write):
		out.Type = EventUpdated
		out.Document = doc
	default:
		out.Type = EventAdded
		out.Document = doc
	}
	return out
}
