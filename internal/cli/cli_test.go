package cli

// Test Plan for CLI commands:
// - show prints an indented outline with 1-based line numbers
// - show --dialect overrides the dialect picked from the file type
// - show --words adds per-section word counts
// - show --json emits one object per file in argument order
// - show fails on unsupported or missing files
// - count prints per-file counts and a total
// - watch re-prints the outline of a file after it is saved
// - watch reports removed files
// - version prints build information

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/watcher"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecuteShow_Text(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.md", "# Guide\nintro text\n## Install\nrun it\n#### Deep\n")

	var out bytes.Buffer
	require.NoError(t, executeShow(context.Background(), &out, []string{path}, loadOpts{Workers: 2}, false))

	got := out.String()
	assert.Contains(t, got, path)
	assert.Contains(t, got, "(prefix, 10 words)")
	assert.Contains(t, got, "  - Guide  L1")
	assert.Contains(t, got, "    - Install  L3")
	assert.Contains(t, got, "      - Deep  L5")
}

func TestExecuteShow_DialectOverrideAndWords(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "# One\na b c\n# Two\nd\n")

	var out bytes.Buffer
	require.NoError(t, executeShow(context.Background(), &out, []string{path}, loadOpts{}, false))
	assert.Contains(t, out.String(), "(no headings)", "text files use the underline dialect")

	d := outline.DialectPrefix
	out.Reset()
	require.NoError(t, executeShow(context.Background(), &out, []string{path}, loadOpts{Dialect: &d, Sections: true}, false))
	got := out.String()
	assert.Contains(t, got, "- One  L1, 5 words")
	assert.Contains(t, got, "- Two  L3, 3 words")
}

func TestExecuteShow_JSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.rst", "Alpha\n=====\n\nBeta\n----\n")
	b := writeFile(t, dir, "b.md", "no headings here\n")

	var out bytes.Buffer
	require.NoError(t, executeShow(context.Background(), &out, []string{a, b}, loadOpts{Workers: 1}, true))

	var got []fileOutline
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].Path)
	assert.Equal(t, outline.DialectUnderline, got[0].Dialect)
	assert.Equal(t, []outline.HeadingRecord{
		{Title: "Alpha", Line: 0, Level: 1},
		{Title: "Beta", Line: 3, Level: 2},
	}, got[0].Headings)
	assert.Equal(t, b, got[1].Path)
	assert.Empty(t, got[1].Headings)
	assert.Equal(t, 3, got[1].WordCount)
	assert.Contains(t, out.String(), `"headings": []`)
}

func TestExecuteShow_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	csv := writeFile(t, dir, "data.csv", "a,b\n")

	var out bytes.Buffer
	assert.Error(t, executeShow(context.Background(), &out, []string{csv}, loadOpts{}, false))
	assert.Error(t, executeShow(context.Background(), &out, []string{filepath.Join(dir, "missing.md")}, loadOpts{}, false))
}

func TestExecuteCount(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.md", "one two three")
	b := writeFile(t, dir, "b.txt", "four\nfive")
	empty := writeFile(t, dir, "c.md", "   \n")

	var out bytes.Buffer
	require.NoError(t, executeCount(context.Background(), &out, []string{a, b, empty}, loadOpts{Workers: 2}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"3", a}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2", b}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"0", empty}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"5", "total"}, strings.Fields(lines[3]))

	out.Reset()
	require.NoError(t, executeCount(context.Background(), &out, []string{a}, loadOpts{}))
	assert.NotContains(t, out.String(), "total")
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExecuteWatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "old.md", "# Old\n")

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	go func() {
		done <- executeWatch(ctx, out, dir, watcher.Options{Debounce: 30 * time.Millisecond}, loadOpts{Workers: 1}, log)
	}()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "watching") }, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "(1 files)")

	writeFile(t, dir, "new.md", "# Fresh\nsome words\n## Child\n")
	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "- Fresh  L1") && strings.Contains(s, "- Child  L3")
	}, 3*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "(prefix, 6 words)")

	require.NoError(t, os.Remove(filepath.Join(dir, "old.md")))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "old.md removed") }, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestExecuteWatch_MissingDir(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := executeWatch(context.Background(), io.Discard, filepath.Join(t.TempDir(), "nope"), watcher.Options{}, loadOpts{}, log)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "docoutline "+Version)
	assert.Contains(t, out.String(), "Git commit:")
}
