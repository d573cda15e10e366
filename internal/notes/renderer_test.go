package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookvault/internal/isbn"
	"bookvault/internal/store"
)

func testRecord(t *testing.T) store.BookRecord {
	t.Helper()
	id := isbn.Validate("9780306406157")
	require.True(t, id.OK())
	return store.BookRecord{
		Title:         "Dune",
		Author:        "Frank Herbert",
		ISBN:          id.Value(),
		Status:        store.StatusReading,
		Pages:         412,
		YearPublished: 1965,
		Publisher:     "Chilton Books",
		Genre:         "Science Fiction",
		Description:   "A desert planet epic.",
	}
}

func TestNotePath(t *testing.T) {
	r := NewRenderer("Books")

	t.Run("title and author", func(t *testing.T) {
		path, err := r.NotePath(testRecord(t))
		require.NoError(t, err)
		assert.Equal(t, "Books/Dune - Frank Herbert.md", path)
	})

	t.Run("title only", func(t *testing.T) {
		rec := testRecord(t)
		rec.Author = ""
		path, err := r.NotePath(rec)
		require.NoError(t, err)
		assert.Equal(t, "Books/Dune.md", path)
	})

	t.Run("unsafe title characters are stripped", func(t *testing.T) {
		rec := testRecord(t)
		rec.Title = "Dune: Messiah?"
		path, err := r.NotePath(rec)
		require.NoError(t, err)
		assert.NotContains(t, path, ":")
		assert.NotContains(t, path, "?")
		assert.Equal(t, "Books/Dune Messiah - Frank Herbert.md", path)
	})

	t.Run("no folder", func(t *testing.T) {
		path, err := NewRenderer("").NotePath(testRecord(t))
		require.NoError(t, err)
		assert.Equal(t, "Dune - Frank Herbert.md", path)
	})
}

func TestRender(t *testing.T) {
	r := NewRenderer("Books")
	r.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	body := r.Render(testRecord(t))

	assert.True(t, strings.HasPrefix(body, "---\n"), "front matter must open the note")
	assert.Contains(t, body, "content_type: book\n")
	assert.Contains(t, body, "created_at: 2026-08-31\n")
	assert.Contains(t, body, "title: Dune\n")
	assert.Contains(t, body, "author: Frank Herbert\n")
	assert.Contains(t, body, "isbn: 9780306406157\n")
	assert.Contains(t, body, "status: reading\n")
	assert.Contains(t, body, "year: 1965\n")
	assert.Contains(t, body, "publisher: Chilton Books\n")
	assert.Contains(t, body, "pages: 412\n")
	assert.Contains(t, body, "tags: books\n")
	assert.Contains(t, body, "# Dune\n")
	assert.Contains(t, body, "## Description\n\nA desert planet epic.\n")
	assert.Contains(t, body, "Genre: Science Fiction\n")
	assert.True(t, strings.HasSuffix(body, "## Notes\n\n"))
}

func TestRenderOmitsEmptyFields(t *testing.T) {
	r := NewRenderer("Books")
	rec := testRecord(t)
	rec.YearPublished = 0
	rec.Publisher = ""
	rec.Pages = 0
	rec.Description = ""
	rec.Genre = ""

	body := r.Render(rec)
	assert.NotContains(t, body, "year:")
	assert.NotContains(t, body, "publisher:")
	assert.NotContains(t, body, "pages:")
	assert.NotContains(t, body, "rating:")
	assert.NotContains(t, body, "## Description")
	assert.NotContains(t, body, "Genre:")
}

func TestRenderEncodesDescriptionMarkup(t *testing.T) {
	r := NewRenderer("Books")
	rec := testRecord(t)
	rec.Description = "<iframe src=x></iframe>"

	body := r.Render(rec)
	assert.NotContains(t, body, "<iframe")
	assert.Contains(t, body, "&lt;iframe")
}
