// Package notes renders a markdown note body for a book record. The record's
// fields are already display-safe; the description is additionally passed
// through the markdown sanitizer so it cannot smuggle raw HTML into a note.
package notes

import (
	"fmt"
	"strings"
	"time"

	"bookvault/internal/sanitize"
	"bookvault/internal/store"
)

// Renderer builds note filenames and bodies for book records.
type Renderer struct {
	folder string
	now    func() time.Time
}

// NewRenderer creates a renderer writing under the given vault folder.
func NewRenderer(folder string) *Renderer {
	return &Renderer{folder: folder, now: time.Now}
}

// NotePath returns the vault-relative path for a record's note.
func (r *Renderer) NotePath(rec store.BookRecord) (string, error) {
	base := rec.Title
	if rec.Author != "" {
		base = fmt.Sprintf("%s - %s", rec.Title, rec.Author)
	}
	name := sanitize.FileName(base)
	if !name.OK() {
		return "", fmt.Errorf("note filename: %w", name.Err())
	}

	rel := name.Value().String() + ".md"
	if r.folder != "" {
		rel = r.folder + "/" + rel
	}
	path := sanitize.ValidateFilePath(rel)
	if !path.OK() {
		return "", fmt.Errorf("note path: %w", path.Err())
	}
	return path.Value().String(), nil
}

// Render produces the note body: YAML front matter followed by the book's
// details, in the flavor Obsidian-style vaults expect.
func (r *Renderer) Render(rec store.BookRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "content_type: book\n")
	fmt.Fprintf(&b, "created_at: %s\n", r.now().Format("2006-01-02"))
	fmt.Fprintf(&b, "title: %s\n", rec.Title)
	fmt.Fprintf(&b, "author: %s\n", rec.Author)
	fmt.Fprintf(&b, "isbn: %s\n", rec.ISBN.String())
	fmt.Fprintf(&b, "status: %s\n", rec.Status)
	if rec.YearPublished != 0 {
		fmt.Fprintf(&b, "year: %d\n", rec.YearPublished)
	}
	if rec.Publisher != "" {
		fmt.Fprintf(&b, "publisher: %s\n", rec.Publisher)
	}
	if rec.Pages > 0 {
		fmt.Fprintf(&b, "pages: %d\n", rec.Pages)
	}
	if rec.Rating != 0 {
		fmt.Fprintf(&b, "rating: %g\n", rec.Rating)
	}
	fmt.Fprintf(&b, "tags: books\n")
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", rec.Title)
	if rec.Description != "" {
		if desc := sanitize.Markdown(rec.Description); desc.OK() {
			fmt.Fprintf(&b, "## Description\n\n%s\n\n", desc.Value().String())
		}
	}
	if rec.Genre != "" {
		fmt.Fprintf(&b, "Genre: %s\n\n", rec.Genre)
	}
	fmt.Fprintf(&b, "## Notes\n\n")
	return b.String()
}
