package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/hrchat/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const leavePage = `<!DOCTYPE html>
<html>
<head><title>Annual   Leave</title><style>body { color: red; }</style></head>
<body>
<nav><a href="/">Home</a></nav>
<h1>Annual Leave</h1>
<p>Employees accrue <b>two days</b> of leave
   per month.</p>
<ul><li>Submit requests in advance.</li><li>Managers approve requests.</li></ul>
<script>console.log("ignored")</script>
<p>Unused leave &amp; carry-over rules apply.<br>See HR.</p>
</body>
</html>`

func TestParseHTML(t *testing.T) {
	p, err := parseHTML(strings.NewReader(leavePage))
	require.NoError(t, err)

	assert.Equal(t, "Annual Leave", p.title)
	want := "Annual Leave\n\n" +
		"Employees accrue two days of leave per month.\n\n" +
		"Submit requests in advance.\nManagers approve requests.\n\n" +
		"Unused leave & carry-over rules apply.\nSee HR."
	assert.Equal(t, want, p.text)
	assert.NotContains(t, p.text, "console.log")
	assert.NotContains(t, p.text, "Home")
	assert.NotContains(t, p.text, "color")
}

func TestParseHTML_TableCells(t *testing.T) {
	p, err := parseHTML(strings.NewReader(`<table><tr><td>Grade</td><td>Days</td></tr><tr><td>A</td><td>25</td></tr></table>`))
	require.NoError(t, err)
	assert.Equal(t, "Grade Days\nA 25", p.text)
}

func TestParseHTML_NoTitle(t *testing.T) {
	p, err := parseHTML(strings.NewReader(`<p>Only text</p>`))
	require.NoError(t, err)
	assert.Empty(t, p.title)
	assert.Equal(t, "Only text", p.text)
}

func TestLoad_SortedRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.html", "<p>Bravo</p>")
	writeFile(t, root, "a.html", "<title>Alpha</title><p>Alpha</p>")
	writeFile(t, root, "benefits/dental.htm", "<p>Dental</p>")
	writeFile(t, root, "notes.txt", "ignored")

	docs, err := NewDirectoryLoader(root, WithConcurrency(3)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "a.html", docs[0].Source)
	assert.Equal(t, "Alpha", docs[0].Title)
	assert.Equal(t, "Alpha", docs[0].Text)
	assert.Equal(t, "b.html", docs[1].Source)
	assert.Equal(t, "benefits/dental.htm", docs[2].Source)
	assert.Equal(t, "Dental", docs[2].Text)
}

func TestLoad_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.html", "<p>Alpha</p>")
	writeFile(t, root, "b.XHTML", "<p>Bravo</p>")

	docs, err := NewDirectoryLoader(root, WithExtensions("xhtml")).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.XHTML", docs[0].Source)
}

func TestLoad_EmptyTree(t *testing.T) {
	docs, err := NewDirectoryLoader(t.TempDir()).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := NewDirectoryLoader(filepath.Join(t.TempDir(), "missing")).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrLoad)
}

func TestLoad_RootIsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.html", "<p>x</p>")
	_, err := NewDirectoryLoader(path).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrLoad)
}

func TestLoad_UnreadableFileAborts(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, root, "a.html", "<p>Alpha</p>")
	path := writeFile(t, root, "b.html", "<p>Bravo</p>")
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	docs, err := NewDirectoryLoader(root).Load(context.Background())
	assert.ErrorIs(t, err, core.ErrLoad)
	assert.Nil(t, docs)
}

func TestLoad_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.html", "<p>Alpha</p>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirectoryLoader(root).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "policies/remote.html", "<title>Remote Work</title><p>Two days a week.</p>")

	l := NewDirectoryLoader(root)
	doc, err := l.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "policies/remote.html", doc.Source)
	assert.Equal(t, "Remote Work", doc.Title)
	assert.Equal(t, "Two days a week.", doc.Text)

	_, err = l.LoadFile(filepath.Join(root, "nope.html"))
	assert.ErrorIs(t, err, core.ErrLoad)
}

func TestMatches(t *testing.T) {
	l := NewDirectoryLoader(".")
	assert.True(t, l.Matches("a.html"))
	assert.True(t, l.Matches("dir/A.HTM"))
	assert.False(t, l.Matches("a.txt"))
	assert.False(t, l.Matches("html"))
}
