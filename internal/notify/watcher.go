// Package notify is the notification decision core: it debounces raw
// download lifecycle events, re-queries authoritative state, decides
// whether a transition deserves a notification and manages the displayed
// notification's lifetime and click handling.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/downwatch/downwatch/internal/settings"
	"github.com/downwatch/downwatch/internal/telemetry"
	"github.com/dustin/go-humanize"
)

// Debounce defaults. The browser's query API may not yet reflect the event
// that was just emitted; waiting lets the follow-up search observe settled
// state.
const (
	DefaultCreatedDelay = 250 * time.Millisecond
	DefaultChangedDelay = 350 * time.Millisecond
)

// Watcher turns the stream of download lifecycle events into notifications.
// Every delta is processed independently after its debounce delay; there is
// no coalescing and no cancellation, so rapid state churn on one download
// may produce more than one notification.
type Watcher struct {
	downloads browser.Downloads
	tabs      browser.Tabs
	store     *settings.Store
	tracker   *Tracker
	telemetry *telemetry.Telemetry

	createdDelay time.Duration
	changedDelay time.Duration
}

func NewWatcher(
	downloads browser.Downloads,
	tabs browser.Tabs,
	store *settings.Store,
	tracker *Tracker,
	tel *telemetry.Telemetry,
	createdDelay, changedDelay time.Duration,
) *Watcher {
	if createdDelay <= 0 {
		createdDelay = DefaultCreatedDelay
	}

	if changedDelay <= 0 {
		changedDelay = DefaultChangedDelay
	}

	return &Watcher{
		downloads:    downloads,
		tabs:         tabs,
		store:        store,
		tracker:      tracker,
		telemetry:    tel,
		createdDelay: createdDelay,
		changedDelay: changedDelay,
	}
}

// HandleDownloadCreated reacts to a created event. The created signal
// carries no delta shape, so one is fabricated: a synthetic transition to
// in_progress, processed after the created debounce delay.
func (w *Watcher) HandleDownloadCreated(ctx context.Context, downloadID int64) {
	delta := browser.DownloadDelta{
		ID:        downloadID,
		State:     &browser.StringDelta{Current: string(browser.StateInProgress)},
		Synthetic: true,
	}

	w.schedule(ctx, delta, w.createdDelay)
}

// HandleDownloadChanged reacts to an authentic change delta from the
// browser, processed after the changed debounce delay.
func (w *Watcher) HandleDownloadChanged(ctx context.Context, delta browser.DownloadDelta) {
	w.schedule(ctx, delta, w.changedDelay)
}

func (w *Watcher) schedule(ctx context.Context, delta browser.DownloadDelta, delay time.Duration) {
	w.telemetry.IncrementDeltasInFlight()

	time.AfterFunc(delay, func() {
		defer w.telemetry.DecrementDeltasInFlight()

		w.process(ctx, delta)
	})
}

// process runs one delta through the pipeline: re-query the download,
// apply the watch gate, decide and show. Every failure degrades to "no
// notification this time".
func (w *Watcher) process(ctx context.Context, delta browser.DownloadDelta) {
	logger := logctx.LoggerFromContext(ctx).With("download_id", delta.ID)

	items, err := w.downloads.Search(ctx, browser.SearchQuery{ID: delta.ID, Limit: 1})
	if err != nil {
		logger.Error("failed to search download", "err", err)

		return
	}

	if len(items) != 1 {
		// transient miss, not an error
		logger.Debug("download item not found", "matches", len(items), "synthetic", delta.Synthetic)

		return
	}

	item := items[0]

	st, err := w.store.Load(ctx)
	if err != nil {
		logger.Error("failed to load settings, using defaults", "err", err)
	}

	if st.DisableWatching && !w.idleTabOpen(ctx, logger) {
		w.telemetry.RecordNotificationSuppressed("watch_gate")

		return
	}

	decision := Decide(delta, item, st)
	if decision == nil {
		logger.Debug("notification suppressed", "state", item.State, "error", item.Error)

		w.telemetry.RecordNotificationSuppressed("decision")

		return
	}

	logger.Debug("notification decided",
		"kind", decision.Kind,
		"display_time", decision.DisplayTime.String(),
		"file_size", humanize.Bytes(uint64(max(item.Size(), 0))),
	)

	w.tracker.Show(ctx, item.ID, browser.NotificationOptions{
		Type:    "basic",
		IconURL: decision.IconPath,
		Title:   decision.Title,
		Message: decision.Message,
	}, decision.DisplayTime)

	w.telemetry.RecordNotificationShown(string(decision.Kind))
}

// idleTabOpen reports whether any window currently has an active,
// non-audible tab. No such tab is taken as "the user is consuming
// audio/video somewhere, do not interrupt".
func (w *Watcher) idleTabOpen(ctx context.Context, logger *slog.Logger) bool {
	audible := false

	tabs, err := w.tabs.Query(ctx, browser.TabQuery{
		CurrentWindow: true,
		Active:        true,
		Audible:       &audible,
	})
	if err != nil {
		logger.Error("failed to query tabs", "err", err)

		return false
	}

	return len(tabs) > 0
}
