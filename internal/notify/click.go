package notify

import (
	"context"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/downwatch/downwatch/internal/settings"
)

// HandleNotificationClicked resolves the clicked notification to its
// download and reveals it, honoring the configured click action. A click
// that arrives after the grace period (or for an unknown id) is a no-op.
func (w *Watcher) HandleNotificationClicked(ctx context.Context, notificationID string) {
	logger := logctx.LoggerFromContext(ctx).With("notification_id", notificationID)

	st, err := w.store.Load(ctx)
	if err != nil {
		logger.Error("failed to load settings, using defaults", "err", err)
	}

	if st.NotifyClickAction == settings.ClickActionNone {
		return
	}

	downloadID, ok := w.tracker.Resolve(notificationID)
	if !ok {
		logger.Debug("no download tracked for notification")

		w.telemetry.RecordNotificationClick("expired")

		return
	}

	exists := true

	items, err := w.downloads.Search(ctx, browser.SearchQuery{
		ID:     downloadID,
		State:  browser.StateComplete,
		Exists: &exists,
		Limit:  1,
	})
	if err != nil {
		logger.Error("failed to search download", "download_id", downloadID, "err", err)

		return
	}

	if len(items) != 1 {
		// gone or incomplete, fall back to the downloads folder
		if err := w.downloads.ShowDefaultFolder(ctx); err != nil {
			logger.Error("failed to open default downloads folder", "err", err)
		}

		w.telemetry.RecordNotificationClick("fallback_folder")

		return
	}

	if err := w.downloads.Show(ctx, downloadID); err != nil {
		logger.Error("failed to reveal download", "download_id", downloadID, "err", err)

		return
	}

	w.telemetry.RecordNotificationClick("revealed")
}
