// Package workspace tracks open documents and the active one, recomputing
// outlines and word counts whenever a document changes.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/stats"
)

var (
	ErrQueueFull = errors.New("change queue is full")
	ErrNotFound  = errors.New("document not found")
	ErrStopped   = errors.New("tracker is stopped")
)

// Change is a new full text for a document.
type Change struct {
	DocID   string
	Title   string
	Text    string
	Dialect outline.Dialect
}

// View is what the side panel displays: the active document's outline and
// word count. The zero View (no active document) has a word count of 0.
//
// Seq orders the views handed to subscribers: a view with a higher Seq was
// read from newer tracker state, across documents and re-created documents.
// Views returned by Active carry Seq 0.
type View struct {
	EventID   string                  `json:"event_id"`
	Seq       uint64                  `json:"seq,omitempty"`
	DocID     string                  `json:"doc_id,omitempty"`
	Title     string                  `json:"title,omitempty"`
	Revision  uint64                  `json:"revision"`
	Headings  []outline.HeadingRecord `json:"headings"`
	Lines     []string                `json:"lines"`
	WordCount int                     `json:"word_count"`
}

// Options controls the tracker's worker pool and eviction.
type Options struct {
	Workers     int
	QueueSize   int
	DocumentTTL time.Duration
	StatsWindow time.Duration
}

type task struct {
	doc      *Document
	change   Change
	revision uint64
}

// Tracker recomputes outlines off the caller's goroutine. Each document's
// displayed outline is replaced wholesale by the newest revision; results for
// older revisions that finish late are dropped.
type Tracker struct {
	docs    *Store
	queue   chan task
	log     *slog.Logger
	opts    Options
	latency *stats.Latency

	mu      sync.Mutex
	active  string
	subs    []func(View)
	stopped bool

	// publishMu makes reading the active view and numbering it one step.
	publishMu sync.Mutex
	seq       uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker creates a tracker. Call Start before submitting changes.
func NewTracker(opts Options, log *slog.Logger) *Tracker {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.DocumentTTL <= 0 {
		opts.DocumentTTL = 24 * time.Hour
	}
	return &Tracker{
		docs:    NewStore(opts.DocumentTTL),
		queue:   make(chan task, opts.QueueSize),
		log:     log,
		opts:    opts,
		latency: stats.NewLatency(opts.StatsWindow),
	}
}

// Start launches worker goroutines.
func (t *Tracker) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	for range t.opts.Workers {
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case tk := <-t.queue:
					t.process(tk)
				}
			}
		}()
	}

	// Start document store cleanup.
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := t.docs.Cleanup(t.ActiveID()); n > 0 {
					t.log.Info("evicted idle documents", "count", n)
				}
			}
		}
	}()
}

// Stop shuts down the workers. Changes still queued are discarded and later
// submits fail with ErrStopped.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
}

// Submit queues a change and returns the revision assigned to it.
func (t *Tracker) Submit(c Change) (uint64, error) {
	if c.DocID == "" {
		return 0, fmt.Errorf("submit: empty document id")
	}
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if stopped {
		return 0, ErrStopped
	}
	c.Text = parser.NormalizeNewlines(c.Text)

	doc := t.docs.Open(c.DocID, c.Title)
	rev, ok := doc.reserve(func(rev uint64) bool {
		select {
		case t.queue <- task{doc: doc, change: c, revision: rev}:
			return true
		default:
			return false
		}
	})
	if !ok {
		return 0, fmt.Errorf("%w (%d)", ErrQueueFull, t.opts.QueueSize)
	}
	return rev, nil
}

func (t *Tracker) process(tk task) {
	start := time.Now()
	headings := outline.Extract(tk.change.Dialect, tk.change.Text)
	words := outline.CountWords(tk.change.Text)
	t.latency.Record(time.Since(start))

	log := t.log.With("doc_id", tk.change.DocID, "revision", tk.revision)
	if !tk.doc.apply(tk.revision, tk.change, headings, words) {
		log.Debug("dropped stale outline")
		return
	}
	log.Debug("outline updated", "headings", len(headings), "words", words)

	if t.ActiveID() == tk.change.DocID {
		t.publish()
	}
}

// Get returns a snapshot of one document.
func (t *Tracker) Get(id string) (Snapshot, error) {
	d := t.docs.Get(id)
	if d == nil {
		return Snapshot{}, ErrNotFound
	}
	return d.Snapshot(), nil
}

// Content returns a document snapshot and the text its outline was computed
// from, read atomically.
func (t *Tracker) Content(id string) (Snapshot, string, error) {
	d := t.docs.Get(id)
	if d == nil {
		return Snapshot{}, "", ErrNotFound
	}
	snap, text := d.Content()
	return snap, text, nil
}

// List returns snapshots of all documents ordered by id.
func (t *Tracker) List() []Snapshot {
	docs := t.docs.List()
	out := make([]Snapshot, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Snapshot())
	}
	slices.SortFunc(out, func(a, b Snapshot) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// Delete forgets a document. Deleting the active document clears the panel.
func (t *Tracker) Delete(id string) error {
	if !t.docs.Delete(id) {
		return ErrNotFound
	}
	t.mu.Lock()
	wasActive := t.active == id
	if wasActive {
		t.active = ""
	}
	t.mu.Unlock()
	if wasActive {
		t.publish()
	}
	return nil
}

// SetActive switches the document shown in the panel. An empty id clears it.
func (t *Tracker) SetActive(id string) error {
	if id != "" && t.docs.Get(id) == nil {
		return ErrNotFound
	}
	t.mu.Lock()
	changed := t.active != id
	t.active = id
	t.mu.Unlock()
	if changed {
		t.publish()
	}
	return nil
}

// ActiveID returns the id of the active document, or "".
func (t *Tracker) ActiveID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Active returns the current panel view.
func (t *Tracker) Active() View {
	v := View{
		EventID:  newEventID(),
		Headings: []outline.HeadingRecord{},
		Lines:    []string{},
	}
	id := t.ActiveID()
	if id == "" {
		return v
	}
	d := t.docs.Get(id)
	if d == nil {
		return v
	}
	snap := d.Snapshot()
	v.DocID = snap.ID
	v.Title = snap.Title
	v.Revision = snap.Revision
	v.Headings = snap.Headings
	v.Lines = outline.FormatList(snap.Headings)
	v.WordCount = snap.WordCount
	return v
}

// Subscribe registers fn to receive every new panel view. fn runs on a
// tracker goroutine and must not block.
func (t *Tracker) Subscribe(fn func(View)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// Latency returns recomputation latency statistics.
func (t *Tracker) Latency() stats.Snapshot {
	return t.latency.Snapshot()
}

// QueueDepth returns current queue depth.
func (t *Tracker) QueueDepth() int {
	return len(t.queue)
}

func (t *Tracker) publish() {
	t.mu.Lock()
	subs := slices.Clone(t.subs)
	t.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	t.publishMu.Lock()
	v := t.Active()
	t.seq++
	v.Seq = t.seq
	t.publishMu.Unlock()
	for _, fn := range subs {
		fn(v)
	}
}
