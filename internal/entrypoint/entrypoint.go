// Package entrypoint wires the application together: config, logging, vault,
// store, lookup client, note renderer, and the cache sweep scheduler. All
// behavior lives in the packages it connects.
package entrypoint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"bookvault/internal/config"
	"bookvault/internal/isbn"
	"bookvault/internal/metadata"
	"bookvault/internal/notes"
	"bookvault/internal/scheduler"
	"bookvault/internal/store"
	"bookvault/internal/vault"
)

// App holds the wired components.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *store.Store
	client   *metadata.Client
	renderer *notes.Renderer
	vault    vault.Vault
	sweeper  *scheduler.SweepScheduler
}

// New builds an App from configuration.
func New(cfg *config.Config) *App {
	logger := newLogger(cfg.Log.Level)

	v := vault.NewFS(afero.NewOsFs(), cfg.Library.Root)
	st := store.New(v, logger)
	gate := metadata.NewGate(cfg.Lookup.RateLimit, cfg.Lookup.RateWindow)

	return &App{
		cfg:      cfg,
		log:      logger,
		store:    st,
		client:   metadata.NewClient(gate, logger),
		renderer: notes.NewRenderer(cfg.Notes.Folder),
		vault:    v,
		sweeper:  scheduler.NewSweepScheduler(st, cfg.Cache.MaxAge, logger),
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Start launches background work (the cache sweep) when enabled.
func (a *App) Start(ctx context.Context) error {
	if !a.cfg.Cache.SweepEnabled {
		return nil
	}
	return a.sweeper.Start(ctx, a.cfg.Cache.SweepSchedule)
}

// Stop halts background work.
func (a *App) Stop() {
	a.sweeper.Stop()
}

// Lookup fetches validated metadata for a raw identifier string.
func (a *App) Lookup(ctx context.Context, rawISBN string) (*metadata.LookupResult, error) {
	id := isbn.Validate(rawISBN)
	if !id.OK() {
		return nil, fmt.Errorf("invalid identifier: %w", id.Err())
	}
	return a.client.LookupByISBN(ctx, id.Value())
}

// AddBook looks up a raw identifier, stores the record in the collection, and
// writes a note for it. Returns false when the book was already present.
func (a *App) AddBook(ctx context.Context, rawISBN string) (bool, error) {
	id := isbn.Validate(rawISBN)
	if !id.OK() {
		return false, fmt.Errorf("invalid identifier: %w", id.Err())
	}

	meta, err := a.client.LookupByISBN(ctx, id.Value())
	if err != nil {
		return false, fmt.Errorf("lookup: %w", err)
	}

	rec := store.BookRecord{
		Title:         meta.Title,
		Author:        meta.Author,
		ISBN:          id.Value(),
		Status:        store.StatusToRead,
		Pages:         meta.Pages,
		Publisher:     meta.Publisher,
		YearPublished: meta.Year,
		Description:   meta.Description,
	}
	if len(meta.Subjects) > 0 {
		rec.Genre = meta.Subjects[0]
	}

	notePath, err := a.renderer.NotePath(rec)
	if err != nil {
		a.log.Warn("note path rejected, storing without note link", "error", err)
	} else {
		rec.NotesLink = notePath
	}

	added, err := a.store.Add(ctx, a.cfg.Library.File, rec)
	if err != nil {
		return false, fmt.Errorf("store record: %w", err)
	}
	if !added {
		return false, nil
	}

	if notePath != "" {
		if err := a.vault.Write(ctx, notePath, a.renderer.Render(rec)); err != nil {
			// The record is stored; a failed note write is not fatal.
			a.log.Warn("note write failed", "path", notePath, "error", err)
		}
	}
	return true, nil
}

// UpdateStatus moves a stored book to a new reading status.
func (a *App) UpdateStatus(ctx context.Context, rawISBN string, status store.Status) error {
	id := isbn.Validate(rawISBN)
	if !id.OK() {
		return fmt.Errorf("invalid identifier: %w", id.Err())
	}
	if !store.ValidStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}
	return a.store.Update(ctx, a.cfg.Library.File, id.Value(), store.FieldPatch{Status: &status})
}

// Show returns the stored record for a raw identifier.
func (a *App) Show(ctx context.Context, rawISBN string) (store.BookRecord, bool, error) {
	id := isbn.Validate(rawISBN)
	if !id.OK() {
		return store.BookRecord{}, false, fmt.Errorf("invalid identifier: %w", id.Err())
	}
	return a.store.Get(ctx, a.cfg.Library.File, id.Value())
}

// RateStatus reports the lookup provider's remaining call budget.
func (a *App) RateStatus() metadata.GateStatus {
	return a.client.Gate().Status()
}
