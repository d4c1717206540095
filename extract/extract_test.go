package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("page one text\fpage two text\f\f"), 0644))

	source := NewTextSource(path)
	assert.Equal(t, "notes.txt", source.Filename())

	pages, err := source.Pages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "page one text", pages[0].Text)
	assert.Equal(t, 2, pages[1].Number)
	assert.Equal(t, "page two text", pages[1].Text)
}

func TestTextSource_NoFormFeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("just one page"), 0644))

	pages, err := NewTextSource(path).Pages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].Number)
}

func TestTextSource_MissingFile(t *testing.T) {
	_, err := NewTextSource("/nonexistent/file.txt").Pages(context.Background())
	assert.Error(t, err)
}

func TestParseContentStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n(Hello) Tj\n[(apple ) -120 (pie)] TJ\nT*\n(next line) '\nET\n")

	text := parseContentStream(stream)
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "apple pie")
	assert.Contains(t, text, "next line")
}

func TestParseContentStream_PreservesLineStructure(t *testing.T) {
	stream := []byte("(INTRODUCTION) Tj\nT*\n(Body text here.) Tj\n")

	text := parseContentStream(stream)
	lines := []string{"INTRODUCTION", "Body text here."}
	for _, line := range lines {
		assert.Contains(t, text, line)
	}
	assert.Contains(t, text, "\n")
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain text`, "plain text"},
		{`a\(b\)c`, "a(b)c"},
		{`tab\there`, "tab\there"},
		{`line\nbreak`, "line\nbreak"},
		{`back\\slash`, "back\\slash"},
		{`oct\040space`, "oct space"},
		{`oct\101`, "octA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, decodePDFString([]byte(tt.in)), "input %q", tt.in)
	}
}

func TestCleanExtractedText(t *testing.T) {
	assert.Equal(t, "one two", cleanExtractedText("one    two"))
	assert.Equal(t, "one\ntwo", cleanExtractedText("one\ntwo"))
	assert.Equal(t, "a b", cleanExtractedText("  a \t b  "))
	assert.Equal(t, "", cleanExtractedText("   "))
}
