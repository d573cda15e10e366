// Package store maintains a cached, file-backed collection of book records.
// One record per ISBN, insertion order preserved; reads go through a
// modification-time coherent cache and writes replace the whole document.
package store

import (
	"bookvault/internal/isbn"
)

// Status is the reading state of a book.
type Status string

const (
	StatusToRead    Status = "to-read"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is one of the known reading states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// BookRecord is the canonical entity. The ISBN field is the unique key within
// a collection and is immutable once set: it can only be produced by
// isbn.Validate, never assigned from a raw string.
type BookRecord struct {
	Title         string
	Author        string
	ISBN          isbn.ISBN
	Status        Status
	StartedDate   string
	FinishedDate  string
	Rating        float64
	Pages         int
	Genre         string
	Publisher     string
	YearPublished int
	Description   string
	CoverPath     string
	NotesLink     string
}

// FieldPatch carries a partial update. Pointer fields distinguish "not
// supplied" from "set to zero"; only supplied fields overwrite. ISBN is
// deliberately absent: the key is immutable.
type FieldPatch struct {
	Title         *string
	Author        *string
	Status        *Status
	StartedDate   *string
	FinishedDate  *string
	Rating        *float64
	Pages         *int
	Genre         *string
	Publisher     *string
	YearPublished *int
	Description   *string
	CoverPath     *string
	NotesLink     *string
}

// apply merges the patch over rec, right-hand overwrite of supplied keys only.
func (p FieldPatch) apply(rec *BookRecord) {
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Author != nil {
		rec.Author = *p.Author
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.StartedDate != nil {
		rec.StartedDate = *p.StartedDate
	}
	if p.FinishedDate != nil {
		rec.FinishedDate = *p.FinishedDate
	}
	if p.Rating != nil {
		rec.Rating = *p.Rating
	}
	if p.Pages != nil {
		rec.Pages = *p.Pages
	}
	if p.Genre != nil {
		rec.Genre = *p.Genre
	}
	if p.Publisher != nil {
		rec.Publisher = *p.Publisher
	}
	if p.YearPublished != nil {
		rec.YearPublished = *p.YearPublished
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.CoverPath != nil {
		rec.CoverPath = *p.CoverPath
	}
	if p.NotesLink != nil {
		rec.NotesLink = *p.NotesLink
	}
}

// empty reports whether the patch supplies no fields at all.
func (p FieldPatch) empty() bool {
	return p.Title == nil && p.Author == nil && p.Status == nil &&
		p.StartedDate == nil && p.FinishedDate == nil && p.Rating == nil &&
		p.Pages == nil && p.Genre == nil && p.Publisher == nil &&
		p.YearPublished == nil && p.Description == nil && p.CoverPath == nil &&
		p.NotesLink == nil
}
