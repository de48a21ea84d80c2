package workspace

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
)

// Document tracks the latest derived outline of one open document.
type Document struct {
	mu sync.Mutex

	ID      string
	Title   string
	Dialect outline.Dialect

	// Revision is the newest revision whose outline has been applied;
	// submitted is the newest revision handed out by Submit.
	Revision  uint64
	submitted uint64

	headings    []outline.HeadingRecord
	wordCount   int
	text        string
	contentHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is a read-only, JSON-safe copy of document state.
type Snapshot struct {
	ID          string                  `json:"doc_id"`
	Title       string                  `json:"title"`
	Dialect     outline.Dialect         `json:"dialect"`
	Revision    uint64                  `json:"revision"`
	Pending     bool                    `json:"pending"`
	Headings    []outline.HeadingRecord `json:"headings"`
	WordCount   int                     `json:"word_count"`
	ContentHash string                  `json:"content_hash,omitempty"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// reserve offers the next revision number to enqueue and records it as
// submitted only when enqueue accepts it. A rejected change leaves no trace.
func (d *Document) reserve(enqueue func(rev uint64) bool) (uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rev := d.submitted + 1
	if !enqueue(rev) {
		return 0, false
	}
	d.submitted = rev
	d.UpdatedAt = time.Now()
	return rev, true
}

// apply stores a computed outline unless a newer revision already landed.
func (d *Document) apply(rev uint64, c Change, headings []outline.HeadingRecord, words int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rev <= d.Revision {
		return false
	}
	d.Revision = rev
	if c.Title != "" {
		d.Title = c.Title
	}
	d.Dialect = c.Dialect
	d.headings = headings
	d.wordCount = words
	d.text = c.Text
	d.contentHash = ContentHashHex([]byte(c.Text))
	d.UpdatedAt = time.Now()
	return true
}

// Snapshot returns a JSON-safe copy of the document state. The headings slice
// is copied so callers may keep it across later revisions.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Content returns the snapshot together with the text it was computed from.
func (d *Document) Content() (Snapshot, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked(), d.text
}

func (d *Document) snapshotLocked() Snapshot {
	headings := make([]outline.HeadingRecord, len(d.headings))
	copy(headings, d.headings)
	return Snapshot{
		ID:          d.ID,
		Title:       d.Title,
		Dialect:     d.Dialect,
		Revision:    d.Revision,
		Pending:     d.submitted > d.Revision,
		Headings:    headings,
		WordCount:   d.wordCount,
		ContentHash: d.contentHash,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Store is a thread-safe in-memory document registry with TTL eviction.
type Store struct {
	mu   sync.Mutex
	docs map[string]*Document
	ttl  time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		docs: make(map[string]*Document),
		ttl:  ttl,
	}
}

// Open returns the document with id, creating it if needed.
func (s *Store) Open(id, title string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[id]; ok {
		return d
	}
	now := time.Now()
	d := &Document{ID: id, Title: title, CreatedAt: now, UpdatedAt: now}
	s.docs[id] = d
	return d
}

func (s *Store) Get(id string) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id]
}

// Delete removes a document and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[id]
	delete(s.docs, id)
	return ok
}

// List returns all documents in no particular order.
func (s *Store) List() []*Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}

// Cleanup removes documents idle for longer than the TTL, except keep.
func (s *Store) Cleanup(keep string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, d := range s.docs {
		if id == keep {
			continue
		}
		d.mu.Lock()
		idle := now.Sub(d.UpdatedAt)
		d.mu.Unlock()
		if idle > s.ttl {
			delete(s.docs, id)
			removed++
		}
	}
	return removed
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
