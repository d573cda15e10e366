// Package metadata fetches book metadata from the OpenLibrary API. Every
// field that comes back is untrusted: responses pass through the safe
// decoder's deep validation before anything reaches a record, and all calls
// go through a rolling-window rate gate.
package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bookvault/internal/isbn"
	"bookvault/internal/safejson"
	"bookvault/internal/sanitize"
)

const defaultUserAgent = "bookvault/1.0"

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

// LookupResult contains the validated fields extracted from one provider
// response. All strings are display-sanitized.
type LookupResult struct {
	Title       string
	Author      string
	Publisher   string
	Description string
	Subjects    []string
	Pages       int
	Year        int
	CoverURL    string
}

// Client fetches book metadata from OpenLibrary.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	gate       *Gate
	log        *slog.Logger
}

// NewClient creates an OpenLibrary client using the given rate gate.
func NewClient(gate *Gate, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://openlibrary.org",
		userAgent:  defaultUserAgent,
		gate:       gate,
		log:        logger.With("component", "metadata"),
	}
}

// Gate exposes the client's rate gate so callers can inspect Status.
func (c *Client) Gate() *Gate {
	return c.gate
}

// LookupByISBN fetches and validates metadata for a validated identifier.
func (c *Client) LookupByISBN(ctx context.Context, id isbn.ISBN) (*LookupResult, error) {
	doc, err := c.fetchDocument(ctx, fmt.Sprintf("%s/isbn/%s.json", c.baseURL, id.String()))
	if err != nil {
		return nil, err
	}

	res := &LookupResult{
		Title:       stringField(doc, "title"),
		Publisher:   firstString(doc, "publishers"),
		Pages:       intField(doc, "number_of_pages"),
		Year:        extractYear(stringField(doc, "publish_date")),
		Description: descriptionField(doc),
		Subjects:    stringList(doc, "subjects", 10),
	}

	// Author objects are referenced by key and need a second call.
	if key := authorKey(doc); key != "" {
		name, err := c.fetchAuthorName(ctx, key)
		if err != nil {
			c.log.Warn("author lookup failed", "key", key, "error", err)
		} else {
			res.Author = name
		}
	}

	// The cover URL is built locally, then held to the same allow-list rules
	// as any other URL entering the pipeline.
	cover := sanitize.ValidateURL(fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", id.String()))
	if cover.OK() {
		res.CoverURL = cover.Value().String()
	}

	if res.Title == "" {
		return nil, fmt.Errorf("lookup %s: provider returned no title", id.String())
	}
	return res, nil
}

// fetchDocument performs a rate-gated GET and returns the deep-validated
// response document.
func (c *Client) fetchDocument(ctx context.Context, url string) (map[string]any, error) {
	if err := c.gate.AwaitSlot(ctx); err != nil {
		return nil, fmt.Errorf("await rate-limit slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	c.gate.RecordUse()
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("not found: %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	parsed := safejson.Parse(string(body), func(m map[string]any) bool {
		return m != nil
	})
	if !parsed.OK() {
		return nil, fmt.Errorf("parse response: %w", parsed.Err())
	}
	validated := safejson.ValidateUntrustedObject(parsed.Value())
	if !validated.OK() {
		return nil, fmt.Errorf("validate response: %w", validated.Err())
	}
	doc, ok := validated.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not an object")
	}
	return doc, nil
}

func (c *Client) fetchAuthorName(ctx context.Context, key string) (string, error) {
	doc, err := c.fetchDocument(ctx, fmt.Sprintf("%s%s.json", c.baseURL, key))
	if err != nil {
		return "", err
	}
	return stringField(doc, "name"), nil
}

// authorKey pulls the first author reference key out of the document. The
// deep walk entity-encodes the slashes, so they are undone before the key is
// used as a URL path, and the shape is checked afterwards.
func authorKey(doc map[string]any) string {
	authors, ok := doc["authors"].([]any)
	if !ok || len(authors) == 0 {
		return ""
	}
	ref, ok := authors[0].(map[string]any)
	if !ok {
		return ""
	}
	key := sanitize.DecodeEntities(stringField(ref, "key"))
	rest, ok := strings.CutPrefix(key, "/authors/")
	if !ok || rest == "" || strings.ContainsAny(rest, "/\\?#") {
		return ""
	}
	return key
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return strings.TrimSpace(s)
}

func intField(doc map[string]any, key string) int {
	if f, ok := doc[key].(float64); ok && f > 0 {
		return int(f)
	}
	return 0
}

func firstString(doc map[string]any, key string) string {
	list, ok := doc[key].([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	s, _ := list[0].(string)
	return strings.TrimSpace(s)
}

func stringList(doc map[string]any, key string, limit int) []string {
	list, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// descriptionField handles OpenLibrary's two description shapes: a plain
// string or a {type, value} object.
func descriptionField(doc map[string]any) string {
	switch v := doc["description"].(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		return stringField(v, "value")
	}
	return ""
}

// extractYear finds a plausible 4-digit year in a free-form date string.
func extractYear(dateStr string) int {
	dateStr = strings.TrimSpace(dateStr)
	formats := []string{
		"2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		"January 2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t.Year()
		}
	}
	for i := 0; i+4 <= len(dateStr); i++ {
		if dateStr[i] >= '0' && dateStr[i] <= '9' {
			var year int
			if _, err := fmt.Sscanf(dateStr[i:i+4], "%d", &year); err == nil && year > 1000 && year < 3000 {
				return year
			}
		}
	}
	return 0
}
