package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iranzi17/ibc-15kv-reporting/internal/cache"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
)

// Fetcher is the remote side of a Source. *Client implements it; tests
// substitute fakes.
type Fetcher interface {
	Values(ctx context.Context, rangeSpec string) ([][]string, error)
	Append(ctx context.Context, rangeSpec string, rows [][]string) error
}

// Source produces raw worksheet rows, preferring the remote sheet and falling
// back to the offline cache. Every successful fetch refreshes the cache.
type Source struct {
	fetcher   Fetcher
	cache     *cache.Cache
	schema    *model.Schema
	sheetName string
	log       *zap.SugaredLogger
}

// NewSource wires a source. fetcher may be nil when no credentials are
// configured; the source then always serves from the cache.
func NewSource(fetcher Fetcher, c *cache.Cache, schema *model.Schema, sheetName string, log *zap.SugaredLogger) *Source {
	return &Source{
		fetcher:   fetcher,
		cache:     c,
		schema:    schema,
		sheetName: sheetName,
		log:       log,
	}
}

// dataRange covers all data rows of the worksheet, excluding the header row.
// The end column follows the schema width, so the legacy 6-column sheet reads
// A2:F and the current one A2:N.
func (s *Source) dataRange() string {
	end := rune('A' + s.schema.Width() - 1)
	return fmt.Sprintf("%s!A2:%c", s.sheetName, end)
}

// Rows fetches the current rows. offline reports whether the result came
// from the cache instead of the sheet; a fetch failure is logged and served
// from the cache, never surfaced as an error.
func (s *Source) Rows(ctx context.Context) (rows [][]string, offline bool) {
	if s.fetcher == nil {
		s.log.Infow("no sheet credentials, serving offline cache")
		return s.cache.Load().Rows, true
	}

	rows, err := s.fetcher.Values(ctx, s.dataRange())
	if err != nil {
		s.log.Warnw("sheet fetch failed, falling back to offline cache", "error", err)
		return s.cache.Load().Rows, true
	}

	if err := s.cache.SaveRows(rows); err != nil {
		s.log.Warnw("offline cache write failed", "error", err)
	}
	return rows, false
}

// Append pushes new rows to the worksheet and mirrors them into the cache so
// an immediate offline fallback still sees them.
func (s *Source) Append(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	if s.fetcher == nil {
		return fmt.Errorf("sheet is not configured")
	}
	if err := s.fetcher.Append(ctx, s.sheetName, rows); err != nil {
		return err
	}

	snap := s.cache.Load()
	snap.Rows = append(snap.Rows, rows...)
	if err := s.cache.Save(snap); err != nil {
		s.log.Warnw("offline cache write failed after append", "error", err)
	}
	return nil
}

// Uploads exposes the cached uploads for a site/date pair.
func (s *Source) Uploads(site, date string) []cache.Upload {
	return s.cache.Load().Uploads[cache.UploadKey(site, date)]
}

// PutUpload stores an operator-provided attachment in the cache.
func (s *Source) PutUpload(site, date string, up cache.Upload) error {
	return s.cache.PutUpload(site, date, up)
}
