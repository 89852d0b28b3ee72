package chunker

import (
	"fmt"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/poiesic/hrchat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// policyText builds a multi-paragraph document of roughly the requested length.
func policyText(paragraphs, sentences int) string {
	var b strings.Builder
	for p := 0; p < paragraphs; p++ {
		if p > 0 {
			b.WriteString("\n\n")
		}
		for s := 0; s < sentences; s++ {
			if s > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "Section %d clause %d explains how employees request leave.", p, s)
		}
	}
	return b.String()
}

func collect(s *Splitter, doc core.Document) []core.Chunk {
	return slices.Collect(s.Split(doc))
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative size", -10, 0},
		{"negative overlap", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.size, tt.overlap)
			assert.ErrorIs(t, err, core.ErrChunkConfig)
			assert.Nil(t, s)
		})
	}
}

func TestNew_EmptySeparatorList(t *testing.T) {
	_, err := New(100, 10, WithSeparators())
	assert.ErrorIs(t, err, core.ErrChunkConfig)
}

func TestSplit_ChunkBound(t *testing.T) {
	configs := []struct{ size, overlap int }{
		{500, 50}, {100, 20}, {64, 0}, {40, 39}, {10, 3},
	}
	docs := []string{
		policyText(6, 5),
		policyText(1, 40),
		strings.Repeat("x", 1234),
		"line one\nline two\nline three\n" + strings.Repeat("word ", 200),
		"Überstunden werden vergütet. " + strings.Repeat("ü", 300),
	}

	for _, cfg := range configs {
		s, err := New(cfg.size, cfg.overlap)
		require.NoError(t, err)
		for i, text := range docs {
			t.Run(fmt.Sprintf("size=%d/overlap=%d/doc=%d", cfg.size, cfg.overlap, i), func(t *testing.T) {
				chunks := collect(s, core.Document{Text: text, Source: "doc.html"})
				require.NotEmpty(t, chunks)
				for _, c := range chunks {
					assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), cfg.size)
				}
			})
		}
	}
}

func TestSplit_OverlapProperty(t *testing.T) {
	configs := []struct{ size, overlap int }{
		{500, 50}, {120, 30}, {50, 10}, {40, 39},
	}
	docs := []string{
		policyText(8, 6),
		strings.Repeat("abcdefghij", 150),
		"Überstunden werden vergütet.\n" + strings.Repeat("ß ", 400),
	}

	for _, cfg := range configs {
		s, err := New(cfg.size, cfg.overlap)
		require.NoError(t, err)
		for i, text := range docs {
			t.Run(fmt.Sprintf("size=%d/overlap=%d/doc=%d", cfg.size, cfg.overlap, i), func(t *testing.T) {
				chunks := collect(s, core.Document{Text: text, Source: "doc.html"})
				require.Greater(t, len(chunks), 1)

				for j := 0; j+1 < len(chunks); j++ {
					prev := []rune(chunks[j].Text)
					next := []rune(chunks[j+1].Text)
					require.GreaterOrEqual(t, len(prev), cfg.overlap)
					require.GreaterOrEqual(t, len(next), cfg.overlap)

					suffix := string(prev[len(prev)-cfg.overlap:])
					prefix := string(next[:cfg.overlap])
					assert.Equal(t, suffix, prefix, "chunks %d and %d", j, j+1)
					assert.Equal(t, cfg.overlap, chunks[j+1].Overlap)
				}
				assert.Equal(t, 0, chunks[0].Overlap)
			})
		}
	}
}

func TestSplit_ReconstructsDocument(t *testing.T) {
	text := policyText(5, 7)
	s, err := New(200, 25)
	require.NoError(t, err)

	chunks := collect(s, core.Document{Text: text, Source: "doc.html"})

	var b strings.Builder
	for i, c := range chunks {
		runes := []rune(c.Text)
		if i > 0 {
			runes = runes[c.Overlap:]
		}
		b.WriteString(string(runes))
	}
	assert.Equal(t, text, b.String())

	// Start offsets point into the original text.
	all := []rune(text)
	for _, c := range chunks {
		assert.Equal(t, c.Text, string(all[c.Start:c.Start+utf8.RuneCountInString(c.Text)]))
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	para := strings.Repeat("a", 60)
	text := para + "\n\n" + para + "\n\n" + para
	s, err := New(130, 0)
	require.NoError(t, err)

	chunks := collect(s, core.Document{Text: text, Source: "doc.html"})
	require.Len(t, chunks, 2)
	assert.Equal(t, para+"\n\n"+para+"\n\n", chunks[0].Text)
	assert.Equal(t, para, chunks[1].Text)
}

func TestSplit_FallsBackToSpaces(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("policy ", 30))
	s, err := New(50, 0)
	require.NoError(t, err)

	chunks := collect(s, core.Document{Text: text, Source: "doc.html"})
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c.Text, " "), "chunk %q should end at a word boundary", c.Text)
	}
}

func TestSplit_NoSeparators(t *testing.T) {
	text := strings.Repeat("x", 1000)
	s, err := New(300, 30)
	require.NoError(t, err)

	chunks := collect(s, core.Document{Text: text, Source: "doc.html"})
	require.Len(t, chunks, 4)
	assert.Equal(t, 300, len(chunks[0].Text))
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 270, chunks[1].Start)
}

func TestSplit_ShortAndEmptyDocuments(t *testing.T) {
	s, err := New(500, 50)
	require.NoError(t, err)

	chunks := collect(s, core.Document{Text: "Short policy.", Source: "short.html"})
	require.Len(t, chunks, 1)
	assert.Equal(t, "Short policy.", chunks[0].Text)
	assert.Equal(t, "short.html", chunks[0].Source)

	assert.Empty(t, collect(s, core.Document{Text: "", Source: "empty.html"}))
	assert.Empty(t, collect(s, core.Document{Text: "   \n\n  ", Source: "blank.html"}))
}

func TestSplit_Metadata(t *testing.T) {
	s, err := New(500, 50)
	require.NoError(t, err)

	doc := core.Document{
		Text:     "Probation lasts three months.",
		Source:   "probation.html",
		Title:    "Probation",
		Metadata: map[string]string{"dept": "hr"},
	}
	chunks := collect(s, doc)
	require.Len(t, chunks, 1)
	assert.Equal(t, map[string]string{"dept": "hr", "title": "Probation"}, chunks[0].Metadata)
	assert.Equal(t, map[string]string{"dept": "hr"}, doc.Metadata, "document metadata must not change")
}

func TestSplit_IsLazy(t *testing.T) {
	s, err := New(20, 5)
	require.NoError(t, err)

	produced := 0
	for range s.Split(core.Document{Text: strings.Repeat("lazy text ", 100), Source: "doc.html"}) {
		produced++
		if produced == 2 {
			break
		}
	}
	assert.Equal(t, 2, produced)
}

func TestSplitAll_ReadingOrder(t *testing.T) {
	s, err := New(500, 50)
	require.NoError(t, err)

	docs := []core.Document{
		{Text: policyText(3, 4), Source: "a.html"},
		{Text: policyText(3, 4), Source: "b.html"},
		{Text: policyText(3, 4), Source: "c.html"},
	}
	chunks := slices.Collect(s.SplitAll(docs))

	// Each document is longer than one chunk.
	require.GreaterOrEqual(t, len(chunks), 3)
	lastSource := ""
	lastIndex := -1
	for _, c := range chunks {
		if c.Source != lastSource {
			assert.Greater(t, c.Source, lastSource)
			lastSource = c.Source
			lastIndex = -1
		}
		assert.Equal(t, lastIndex+1, c.Index)
		lastIndex = c.Index
	}
}
