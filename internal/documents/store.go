package documents

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	metaExt = ".json"
	blobExt = ".blob"
)

// Store keeps uploaded documents in a single directory: one blob and one
// JSON sidecar per document, both named by the document id.
type Store struct {
	dir    string
	logger *log.Logger
	now    func() time.Time
}

// NewStore opens (and creates if needed) a store rooted at dir.
func NewStore(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{dir: dir, logger: logger, now: time.Now}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the documents of a year and category, newest first. A zero
// year or empty category matches everything; a topic category also matches
// the documents of its sub-items.
func (s *Store) List(year int, category string) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read document dir %s: %w", s.dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, metaExt) || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		doc, err := s.readMeta(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("skipping unreadable sidecar", "file", name, "err", err)
			continue
		}
		if year != 0 && doc.Year != year {
			continue
		}
		if !matchesCategory(doc.Category, category) {
			continue
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadDate.Equal(docs[j].UploadDate) {
			return docs[i].UploadDate.After(docs[j].UploadDate)
		}
		return docs[i].Name < docs[j].Name
	})
	return docs, nil
}

// Get retrieves the metadata of a single document.
func (s *Store) Get(id string) (*Document, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	doc, err := s.readMeta(s.metaPath(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return doc, nil
}

// Upload copies r into the store. The blob is written first and the sidecar
// last, each through a temp file and rename, so a listed document always has
// its content. Cancelling ctx aborts the copy.
func (s *Store) Upload(ctx context.Context, r io.Reader, meta Meta, progress Progress) (*Document, error) {
	if meta.Name == "" {
		return nil, fmt.Errorf("upload: name is required")
	}
	if meta.Year <= 0 {
		return nil, fmt.Errorf("upload %s: year must be > 0", meta.Name)
	}
	if meta.Type == "" {
		meta.Type = mime.TypeByExtension(filepath.Ext(meta.Name))
		if meta.Type == "" {
			meta.Type = "application/octet-stream"
		}
	}

	doc := &Document{
		ID:         uuid.NewString(),
		Name:       filepath.Base(meta.Name),
		Type:       meta.Type,
		Year:       meta.Year,
		Category:   meta.Category,
		UploadDate: s.now().UTC(),
	}

	size, err := s.writeAtomic(s.blobPath(doc.ID), &progressReader{ctx: ctx, r: r, fn: progress})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", meta.Name, err)
	}
	doc.Size = size

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		_ = os.Remove(s.blobPath(doc.ID))
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	if _, err := s.writeAtomic(s.metaPath(doc.ID), strings.NewReader(string(data))); err != nil {
		_ = os.Remove(s.blobPath(doc.ID))
		return nil, fmt.Errorf("upload %s: %w", meta.Name, err)
	}

	s.logger.Info("document uploaded", "id", doc.ID, "name", doc.Name, "year", doc.Year, "size", doc.Size)
	return doc, nil
}

// Download opens the content of a document. The caller closes it.
func (s *Store) Download(id string) (io.ReadCloser, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	f, err := os.Open(s.blobPath(id))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	return f, nil
}

// Delete removes a document. The sidecar goes first so the document
// disappears from listings even if the blob removal fails.
func (s *Store) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.Remove(s.metaPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if err := os.Remove(s.blobPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	s.logger.Info("document deleted", "id", id)
	return nil
}

func (s *Store) metaPath(id string) string { return filepath.Join(s.dir, id+metaExt) }
func (s *Store) blobPath(id string) string { return filepath.Join(s.dir, id+blobExt) }

// writeAtomic writes r to a temp file in the store directory and renames it
// to path. It returns the number of bytes written.
func (s *Store) writeAtomic(path string, r io.Reader) (int64, error) {
	tmpFile, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename to final path: %w", err)
	}
	return n, nil
}

func (s *Store) readMeta(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// checkID rejects anything that is not a uuid, which also keeps ids from
// escaping the store directory.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("document id %q: %w", id, ErrNotFound)
	}
	return nil
}

func matchesCategory(docCategory, want string) bool {
	return want == "" || docCategory == want || strings.HasPrefix(docCategory, want+"-")
}

type progressReader struct {
	ctx context.Context
	r   io.Reader
	n   int64
	fn  Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	p.n += int64(n)
	if n > 0 && p.fn != nil {
		p.fn(p.n)
	}
	return n, err
}
