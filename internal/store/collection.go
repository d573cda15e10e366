package store

import (
	"fmt"

	json "github.com/goccy/go-json"

	"bookvault/internal/isbn"
	"bookvault/internal/result"
	"bookvault/internal/safejson"
	"bookvault/internal/sanitize"
)

// Field describes one column of the collection file schema.
type Field struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// collectionFile is the on-disk shape: a UTF-8 JSON blob with a field schema
// and a flat entry list.
type collectionFile struct {
	Fields  []Field          `json:"fields"`
	Entries []map[string]any `json:"entries"`
}

// RecordCollection is the materialized, ordered record list for one source.
type RecordCollection struct {
	Fields  []Field
	Records []BookRecord
}

func defaultFields() []Field {
	return []Field{
		{Name: "title", Type: "text"},
		{Name: "author", Type: "text"},
		{Name: "isbn", Type: "text"},
		{Name: "status", Type: "select", Options: []string{string(StatusToRead), string(StatusReading), string(StatusCompleted)}},
		{Name: "started_date", Type: "date"},
		{Name: "finished_date", Type: "date"},
		{Name: "rating", Type: "number"},
		{Name: "pages", Type: "number"},
		{Name: "genre", Type: "text"},
		{Name: "publisher", Type: "text"},
		{Name: "year_published", Type: "number"},
		{Name: "description", Type: "text"},
		{Name: "cover_path", Type: "text"},
		{Name: "notes_link", Type: "link"},
	}
}

func emptyCollection() *RecordCollection {
	return &RecordCollection{Fields: defaultFields()}
}

// find returns the index of the record with the given identifier, or -1.
func (c *RecordCollection) find(id isbn.ISBN) int {
	for i := range c.Records {
		if c.Records[i].ISBN.String() == id.String() {
			return i
		}
	}
	return -1
}

// deepCopy returns an independent copy. Records are value structs, so copying
// the slices is enough; callers can mutate the copy freely.
func (c *RecordCollection) deepCopy() *RecordCollection {
	out := &RecordCollection{
		Fields:  make([]Field, len(c.Fields)),
		Records: make([]BookRecord, len(c.Records)),
	}
	for i, f := range c.Fields {
		out.Fields[i] = Field{Name: f.Name, Type: f.Type}
		if f.Options != nil {
			out.Fields[i].Options = append([]string(nil), f.Options...)
		}
	}
	copy(out.Records, c.Records)
	return out
}

// decodeCollection parses an untrusted file blob through the safe decoder and
// converts each flat entry into a BookRecord.
func decodeCollection(text string) (*RecordCollection, *result.Error) {
	parsed := safejson.Parse(text, func(f collectionFile) bool {
		return f.Fields != nil && f.Entries != nil
	})
	if !parsed.OK() {
		return nil, parsed.Err()
	}

	file := parsed.Value()
	col := &RecordCollection{Fields: file.Fields}
	for _, entry := range file.Entries {
		col.Records = append(col.Records, recordFromEntry(entry))
	}
	return col, nil
}

// encodeCollection renders the collection back into the file shape.
func encodeCollection(col *RecordCollection) (string, error) {
	file := collectionFile{
		Fields:  col.Fields,
		Entries: make([]map[string]any, 0, len(col.Records)),
	}
	for i := range col.Records {
		file.Entries = append(file.Entries, entryFromRecord(&col.Records[i]))
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}
	return string(data) + "\n", nil
}

// placeholderRecord replaces a row whose required fields failed sanitization.
// A single corrupted row must not abort a read of the whole collection.
func placeholderRecord() BookRecord {
	return BookRecord{
		Title:  "Unknown Title",
		Author: "Unknown Author",
		Status: StatusToRead,
	}
}

// recordFromEntry converts a flat entry into a BookRecord. Every string field
// is display-sanitized and the isbn field re-validated on the way in from
// untrusted storage.
func recordFromEntry(entry map[string]any) BookRecord {
	title, titleOK := sanitizedString(entry, "title")
	author, authorOK := sanitizedString(entry, "author")
	id := isbn.Validate(stringAt(entry, "isbn"))
	if !titleOK || title == "" || !authorOK || author == "" || !id.OK() {
		return placeholderRecord()
	}

	rec := BookRecord{
		Title:  title,
		Author: author,
		ISBN:   id.Value(),
		Status: Status(stringAt(entry, "status")),
	}
	if !ValidStatus(rec.Status) {
		rec.Status = StatusToRead
	}

	rec.StartedDate, _ = sanitizedString(entry, "started_date")
	rec.FinishedDate, _ = sanitizedString(entry, "finished_date")
	rec.Genre, _ = sanitizedString(entry, "genre")
	rec.Publisher, _ = sanitizedString(entry, "publisher")
	rec.Description, _ = sanitizedString(entry, "description")
	rec.CoverPath, _ = sanitizedString(entry, "cover_path")
	rec.NotesLink, _ = sanitizedString(entry, "notes_link")
	rec.Rating = numberAt(entry, "rating")
	rec.Pages = int(numberAt(entry, "pages"))
	rec.YearPublished = int(numberAt(entry, "year_published"))
	if rec.Pages < 0 {
		rec.Pages = 0
	}
	return rec
}

func entryFromRecord(rec *BookRecord) map[string]any {
	entry := map[string]any{
		"title":  rec.Title,
		"author": rec.Author,
		"isbn":   rec.ISBN.String(),
		"status": string(rec.Status),
	}
	putIfSet(entry, "started_date", rec.StartedDate)
	putIfSet(entry, "finished_date", rec.FinishedDate)
	putIfSet(entry, "genre", rec.Genre)
	putIfSet(entry, "publisher", rec.Publisher)
	putIfSet(entry, "description", rec.Description)
	putIfSet(entry, "cover_path", rec.CoverPath)
	putIfSet(entry, "notes_link", rec.NotesLink)
	if rec.Rating != 0 {
		entry["rating"] = rec.Rating
	}
	if rec.Pages > 0 {
		entry["pages"] = rec.Pages
	}
	if rec.YearPublished != 0 {
		entry["year_published"] = rec.YearPublished
	}
	return entry
}

func putIfSet(entry map[string]any, key, value string) {
	if value != "" {
		entry[key] = value
	}
}

func stringAt(entry map[string]any, key string) string {
	if s, ok := entry[key].(string); ok {
		return s
	}
	return ""
}

// sanitizedString returns the display-sanitized value at key. The second
// return is false only when sanitization itself rejected the value.
func sanitizedString(entry map[string]any, key string) (string, bool) {
	raw := stringAt(entry, key)
	if raw == "" {
		return "", true
	}
	safe := sanitize.Display(raw)
	if !safe.OK() {
		return "", false
	}
	return safe.Value().String(), true
}

func numberAt(entry map[string]any, key string) float64 {
	switch v := entry[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}
