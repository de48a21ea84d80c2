package outline

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headinglessDocs = []string{
	"",
	"\n\n\n",
	"plain text\nwith two lines",
	"#hashtag without space\n####### seven markers",
	"  # indented marker\n\tstill not a heading",
	"a paragraph\n\nanother one\n",
}

func TestExtract_HeadinglessTextYieldsNothing(t *testing.T) {
	t.Parallel()

	for _, doc := range headinglessDocs {
		assert.Empty(t, ExtractPrefix(doc), "prefix: %q", doc)
		assert.Empty(t, ExtractUnderline(doc), "underline: %q", doc)
	}
}

func TestExtractPrefix_Levels(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"# A",
		"## B",
		"###### F",
		"####### G",
		"#NoSpace",
		"  # Indented",
		"#\t Tab",
	}, "\n")

	got := ExtractPrefix(doc)
	want := []HeadingRecord{
		{Title: "A", Line: 0, Level: 1},
		{Title: "B", Line: 1, Level: 2},
		{Title: "F", Line: 2, Level: 6},
		{Title: "Tab", Line: 6, Level: 1},
	}
	assert.Equal(t, want, got)
}

func TestExtractPrefix_WhitespaceOnlyTitleDropped(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ExtractPrefix("#   \n## \t\n#"))
}

func TestExtractPrefix_TrimsTrailingWhitespace(t *testing.T) {
	t.Parallel()

	got := ExtractPrefix("# Title   \n## Sub\r\n")
	require.Len(t, got, 2)
	assert.Equal(t, "Title", got[0].Title)
	assert.Equal(t, "Sub", got[1].Title)
}

func TestExtractPrefix_UnicodeSpaces(t *testing.T) {
	t.Parallel()

	got := ExtractPrefix("#\u00a0Title\n##\u3000Wide\u00a0\n#\u00a0\u2003\n#\ufeff Bom")
	assert.Equal(t, []HeadingRecord{
		{Title: "Title", Line: 0, Level: 1},
		{Title: "Wide", Line: 1, Level: 2},
		{Title: "Bom", Line: 3, Level: 1},
	}, got)
}

func TestExtractPrefix_KeepsInnerMarkers(t *testing.T) {
	t.Parallel()

	got := ExtractPrefix("## C# and F# ##")
	require.Len(t, got, 1)
	assert.Equal(t, "C# and F# ##", got[0].Title)
	assert.Equal(t, 2, got[0].Level)
}

func TestExtractPrefix_RoundTrip(t *testing.T) {
	t.Parallel()

	want := []HeadingRecord{
		{Title: "Overview", Level: 1},
		{Title: "Install", Level: 2},
		{Title: "From source", Level: 3},
		{Title: "Deep", Level: 6},
		{Title: "Usage", Level: 2},
		{Title: "Appendix", Level: 1},
	}

	var lines []string
	for i := range want {
		lines = append(lines, fmt.Sprintf("body line before %d", i), "")
		want[i].Line = len(lines)
		lines = append(lines, strings.Repeat("#", want[i].Level)+" "+want[i].Title)
	}
	lines = append(lines, "trailing body")

	got := ExtractPrefix(strings.Join(lines, "\n"))
	assert.Equal(t, want, got)
}

func TestExtract_LinesIncreasingAndInRange(t *testing.T) {
	t.Parallel()

	docs := []string{
		"# a\n## b\n\n### c\ntext\n# d",
		"A\n===\nB\n---\n\nC\n~~~\nD\n===\n",
		"# x\nY\n---\n## z\n",
		"Title\n===\n===\n---\nNext\n---",
	}
	for _, doc := range docs {
		n := len(strings.Split(doc, "\n"))
		for _, records := range [][]HeadingRecord{ExtractPrefix(doc), ExtractUnderline(doc)} {
			prev := -1
			for _, r := range records {
				assert.Greater(t, r.Line, prev, "doc %q", doc)
				assert.GreaterOrEqual(t, r.Line, 0)
				assert.Less(t, r.Line, n)
				assert.NotEmpty(t, r.Title)
				prev = r.Line
			}
		}
	}
}

func TestExtractPrefix_LevelEqualsMarkerCount(t *testing.T) {
	t.Parallel()

	doc := "# a\n## b\n### c\n#### d\n##### e\n###### f\n"
	lines := strings.Split(doc, "\n")
	for _, r := range ExtractPrefix(doc) {
		assert.GreaterOrEqual(t, r.Level, 1)
		assert.LessOrEqual(t, r.Level, 6)
		markers := len(lines[r.Line]) - len(strings.TrimLeft(lines[r.Line], "#"))
		assert.Equal(t, markers, r.Level)
	}
}

func TestExtractUnderline_SingleHeading(t *testing.T) {
	t.Parallel()

	got := ExtractUnderline("Title\n===\n")
	assert.Equal(t, []HeadingRecord{{Title: "Title", Line: 0, Level: 1}}, got)
}

func TestExtractUnderline_FirstSeenRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want []HeadingRecord
	}{
		{
			name: "equals then dash",
			doc:  "A\n===\nB\n---\n",
			want: []HeadingRecord{
				{Title: "A", Line: 0, Level: 1},
				{Title: "B", Line: 2, Level: 2},
			},
		},
		{
			name: "dash first",
			doc:  "A\n---\nB\n===\n",
			want: []HeadingRecord{
				{Title: "A", Line: 0, Level: 1},
				{Title: "B", Line: 2, Level: 2},
			},
		},
		{
			name: "rank is reused",
			doc:  "A\n===\nB\n---\nC\n===\nD\n~~~",
			want: []HeadingRecord{
				{Title: "A", Line: 0, Level: 1},
				{Title: "B", Line: 2, Level: 2},
				{Title: "C", Line: 4, Level: 1},
				{Title: "D", Line: 6, Level: 3},
			},
		},
		{
			name: "run length ignored",
			doc:  "A\n=\nB\n==========\n",
			want: []HeadingRecord{
				{Title: "A", Line: 0, Level: 1},
				{Title: "B", Line: 2, Level: 1},
			},
		},
		{
			name: "stray rule does not claim a rank",
			doc:  "\n---\nA\n===\nB\n---\n",
			want: []HeadingRecord{
				{Title: "A", Line: 2, Level: 1},
				{Title: "B", Line: 4, Level: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUnderline(tt.doc))
		})
	}
}

func TestExtractUnderline_EdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want []HeadingRecord
	}{
		{"underline after underline", "A\n===\n---\n", []HeadingRecord{{Title: "A", Line: 0, Level: 1}}},
		{"underline first line", "===\n---", nil},
		{"blank above underline", "text\n\n---", nil},
		{"whitespace above underline", "   \n===", nil},
		{"dangling title", "A\n===\nDangling", []HeadingRecord{{Title: "A", Line: 0, Level: 1}}},
		{"mixed characters", "A\n=-=\n", nil},
		{"trailing space on underline", "A\n=== \n", nil},
		{"title trimmed", "  Spaced  \n---", []HeadingRecord{{Title: "Spaced", Line: 0, Level: 1}}},
		{"carriage returns not normalized", "A\r\n===\r\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractUnderline(tt.doc)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnderlineExtractor_CustomChars(t *testing.T) {
	t.Parallel()

	e := UnderlineExtractor{Chars: "*^"}
	got := e.Extract("A\n***\nB\n===\nC\n^^^\n")
	assert.Equal(t, []HeadingRecord{
		{Title: "A", Line: 0, Level: 1},
		{Title: "C", Line: 4, Level: 2},
	}, got)
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		// Blank input is zero words, not one empty segment.
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"one two  three", 3},
		{"  leading and trailing  ", 3},
		{"a\nb\tc\r\nd", 4},
		{"# Heading\n\nBody text here.", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountWords(tt.text), "text %q", tt.text)
	}
}

func TestExtract_NoAliasing(t *testing.T) {
	t.Parallel()

	buf := []byte("# Alpha\n## Beta\n")
	records := ExtractPrefix(string(buf))
	copy(buf, "# Gamma\n## Delta\n")

	assert.Equal(t, "Alpha", records[0].Title)
	assert.Equal(t, "Beta", records[1].Title)

	records[0].Title = "changed"
	again := ExtractPrefix("# Alpha\n## Beta\n")
	assert.Equal(t, "Alpha", again[0].Title)
}

func TestExtract_Dispatch(t *testing.T) {
	t.Parallel()

	doc := "# Prefixed\nUnderlined\n---\n"
	assert.Equal(t, []HeadingRecord{{Title: "Prefixed", Line: 0, Level: 1}}, Extract(DialectPrefix, doc))
	assert.Equal(t, []HeadingRecord{{Title: "Underlined", Line: 1, Level: 1}}, Extract(DialectUnderline, doc))
}

func TestParseDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"prefix", DialectPrefix, false},
		{"ATX", DialectPrefix, false},
		{"markdown", DialectPrefix, false},
		{" underline ", DialectUnderline, false},
		{"setext", DialectUnderline, false},
		{"rst", DialectPrefix, true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDialect_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct {
		D Dialect `json:"dialect"`
	}{DialectUnderline})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dialect":"underline"}`, string(b))

	var v struct {
		D Dialect `json:"dialect"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"dialect":"setext"}`), &v))
	assert.Equal(t, DialectUnderline, v.D)
	assert.Error(t, json.Unmarshal([]byte(`{"dialect":"bogus"}`), &v))
}

func TestFormatList(t *testing.T) {
	t.Parallel()

	got := FormatList([]HeadingRecord{
		{Title: "Title", Level: 1},
		{Title: "Subtitle", Level: 2},
		{Title: "Deep", Level: 4},
	})
	assert.Equal(t, []string{"- Title", " - Subtitle", "   - Deep"}, got)
	assert.Empty(t, FormatList(nil))
}

func TestDepths(t *testing.T) {
	t.Parallel()

	records := []HeadingRecord{
		{Level: 1}, {Level: 4}, {Level: 2}, {Level: 3}, {Level: 1}, {Level: 2},
	}
	assert.Equal(t, []int{0, 1, 1, 2, 0, 1}, Depths(records))
}
