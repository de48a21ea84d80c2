package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/watcher"
	"github.com/dgallion1/docoutline/internal/workspace"
)

var (
	watchInclude  []string
	watchExclude  []string
	watchDebounce time.Duration
	watchDialect  string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Re-print the outline of documents as they change",
	Long: `Watch tracks every document under DIR. Whenever a file is saved, the
most recently changed file becomes the active document and its outline
and word count are printed again.

Examples:
  # Watch a docs tree, ignoring drafts
  docoutline watch docs --exclude 'drafts/**'

  # Only markdown, with a longer quiet period
  docoutline watch . --include '**/*.md' --debounce 1s
`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchInclude, "include", nil, "glob of paths to watch, relative to DIR (repeatable)")
	watchCmd.Flags().StringSliceVar(&watchExclude, "exclude", nil, "glob of paths to skip, relative to DIR (repeatable)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before re-reading changed files")
	watchCmd.Flags().StringVarP(&watchDialect, "dialect", "d", "", "heading dialect: prefix or underline (default: by file type)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts := loadOptions()
	if watchDialect != "" {
		d, err := outline.ParseDialect(watchDialect)
		if err != nil {
			return err
		}
		opts.Dialect = &d
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wopts := watcher.Options{
		Include:  watchInclude,
		Exclude:  watchExclude,
		Debounce: watchDebounce,
	}
	return executeWatch(ctx, cmd.OutOrStdout(), args[0], wopts, opts, newLogger())
}

// executeWatch blocks until ctx is cancelled.
func executeWatch(ctx context.Context, out io.Writer, dir string, wopts watcher.Options, opts loadOpts, log *slog.Logger) error {
	w, err := watcher.New(dir, wopts, log)
	if err != nil {
		return err
	}

	tracker := workspace.NewTracker(workspace.Options{Workers: opts.Workers}, log)
	tracker.Start(ctx)
	defer tracker.Stop()

	s := &watchSession{
		root:    w.Root(),
		tracker: tracker,
		opts:    opts,
		out:     out,
		st:      newStyles(out),
		log:     log,
	}
	tracker.Subscribe(s.print)

	files, err := w.Files()
	if err != nil {
		w.Stop()
		return fmt.Errorf("list %s: %w", dir, err)
	}
	for _, f := range files {
		if err := s.submit(f); err != nil {
			log.Warn("skip file", "path", f, "error", err)
		}
	}

	w.Start(ctx, s.changed)
	defer w.Stop()

	s.printf("watching %s (%d files)\n", w.Root(), len(files))
	<-ctx.Done()
	return nil
}

type watchSession struct {
	root    string
	tracker *workspace.Tracker
	opts    loadOpts
	out     io.Writer
	st      styles
	log     *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *watchSession) docID(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (s *watchSession) submit(path string) error {
	doc, err := parseFile(path, s.opts)
	if err != nil {
		return err
	}
	_, err = s.tracker.Submit(workspace.Change{
		DocID:   s.docID(path),
		Title:   doc.Title,
		Text:    doc.Text,
		Dialect: doc.Dialect,
	})
	return err
}

// changed handles one debounced batch. The last surviving file in the batch
// becomes the active document.
func (s *watchSession) changed(files []string) {
	active := ""
	for _, f := range files {
		id := s.docID(f)
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			if s.tracker.Delete(id) == nil {
				s.printf("%s\n", s.st.dim.Render(id+" removed"))
			}
			continue
		}
		if err := s.submit(f); err != nil {
			s.log.Warn("skip file", "path", f, "error", err)
			continue
		}
		active = id
	}
	if active != "" {
		if err := s.tracker.SetActive(active); err != nil {
			s.log.Warn("set active document", "doc_id", active, "error", err)
		}
	}
}

// print renders a panel view once its revision has been applied. Views for
// a revision that is already superseded are skipped; the newer one follows.
func (s *watchSession) print(v workspace.View) {
	if v.DocID == "" {
		return
	}
	snap, err := s.tracker.Get(v.DocID)
	if err != nil || snap.Pending || snap.Revision != v.Revision {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("%s@%d", v.DocID, v.Revision)
	if key == s.last {
		return
	}
	s.last = key
	fmt.Fprintln(s.out)
	s.st.writeOutline(s.out, v.DocID, fileOutline{
		Path:      v.DocID,
		Title:     v.Title,
		Dialect:   snap.Dialect,
		Headings:  v.Headings,
		WordCount: v.WordCount,
	})
}

func (s *watchSession) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
