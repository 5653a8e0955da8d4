package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/google/uuid"
)

// errSourceChanged marks a fetch whose source was replaced while in flight.
var errSourceChanged = errors.New("source changed during refresh")

// Refresh fetches the current source and installs the result. On any failure
// the previous Dataset stays in place and the error wraps
// domain.ErrDataUnavailable. Every attempt is recorded in the refresh log.
func (e *Engine) Refresh(ctx context.Context) (domain.RefreshRecord, error) {
	source := e.Source()
	rec := domain.RefreshRecord{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: e.now().UTC(),
		Status:    domain.RefreshOK,
	}

	err := e.fetchAndInstall(ctx, source, &rec)
	rec.FinishedAt = e.now().UTC()
	if err != nil {
		rec.Error = err.Error()
		err = fmt.Errorf("engine.Refresh %s: %w: %w", source, domain.ErrDataUnavailable, err)
		slog.Warn("refresh failed", "source", source, "status", rec.Status, "err", err)
	} else {
		slog.Info("dataset refreshed",
			"source", source,
			"records", rec.Records,
			"version", rec.Version,
			"duration", rec.Duration(),
		)
	}

	e.metrics.Refresh(rec.Status)
	if e.refreshLog != nil {
		if logErr := e.refreshLog.SaveRefresh(ctx, rec); logErr != nil {
			slog.Warn("refresh log error", "err", logErr)
		}
	}
	return rec, err
}

func (e *Engine) fetchAndInstall(ctx context.Context, source string, rec *domain.RefreshRecord) error {
	records, err := e.feed.FetchDraws(ctx, source)
	if err != nil {
		rec.Status = domain.RefreshFailed
		return fmt.Errorf("fetch: %w", err)
	}
	rec.Records = len(records)

	ds, err := domain.NewDataset(records)
	if err != nil {
		rec.Status = domain.RefreshFailed
		return err
	}
	if ds.Len() < MinRecords {
		rec.Status = domain.RefreshUnavailable
		return fmt.Errorf("got %d records, need at least %d", ds.Len(), MinRecords)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.source != source {
		rec.Status = domain.RefreshFailed
		return errSourceChanged
	}
	rec.Version = e.installLocked(ds)
	return nil
}

// SetSource switches to a new source URL. The Dataset is cleared first, so
// no query mixes the old history with the new source, then the new source
// is fetched. A failed fetch leaves the Dataset empty.
func (e *Engine) SetSource(ctx context.Context, rawURL string) (domain.RefreshRecord, error) {
	if err := validateSourceURL(rawURL); err != nil {
		return domain.RefreshRecord{}, fmt.Errorf("engine.SetSource: %w", err)
	}

	e.mu.Lock()
	e.source = rawURL
	e.installLocked(domain.Dataset{})
	e.mu.Unlock()

	slog.Info("source changed", "source", rawURL)
	return e.Refresh(ctx)
}

// ResetSource switches back to the configured default source.
func (e *Engine) ResetSource(ctx context.Context) (domain.RefreshRecord, error) {
	return e.SetSource(ctx, e.cfg.DefaultSourceURL)
}

func validateSourceURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%w: source URL %q: %v", domain.ErrValidation, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: source URL %q must be http or https", domain.ErrValidation, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: source URL %q has no host", domain.ErrValidation, raw)
	}
	return nil
}

// RecentRefreshes returns the refresh history, most recent first.
func (e *Engine) RecentRefreshes(ctx context.Context, limit int) ([]domain.RefreshRecord, error) {
	if e.refreshLog == nil {
		return nil, nil
	}
	recs, err := e.refreshLog.RecentRefreshes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("engine.RecentRefreshes: %w", err)
	}
	return recs, nil
}

// Run refreshes immediately and then every cfg.RefreshInterval until ctx is
// cancelled. Failed refreshes are logged and retried on the next tick. A
// zero interval refreshes once.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("refresh loop starting",
		"source", e.Source(),
		"interval", e.cfg.RefreshInterval,
		"strategy", e.generator.Name(),
	)

	_, _ = e.Refresh(ctx)
	if e.cfg.RefreshInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(e.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh loop stopped")
			return nil
		case <-ticker.C:
			_, _ = e.Refresh(ctx)
		}
	}
}
