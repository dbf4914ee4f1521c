package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/logctx"
	"github.com/google/uuid"
)

const notificationIDPrefix = "sdn-id"

// DefaultGraceDelay is how long the notification→download mapping survives
// after the notification clears, so a racing click can still resolve it.
const DefaultGraceDelay = time.Second

// Tracker owns the live notification records: it displays notifications,
// remembers which download each one belongs to and retires both on
// schedule. The map is mutex guarded; deltas for unrelated downloads are
// processed in parallel.
type Tracker struct {
	notifications browser.Notifications
	graceDelay    time.Duration

	mu       sync.Mutex
	byNotifs map[string]int64
}

func NewTracker(notifications browser.Notifications, graceDelay time.Duration) *Tracker {
	if graceDelay <= 0 {
		graceDelay = DefaultGraceDelay
	}

	return &Tracker{
		notifications: notifications,
		graceDelay:    graceDelay,
		byNotifs:      make(map[string]int64),
	}
}

// NewNotificationID generates a globally unique notification id for a
// download. The random segment keeps repeated notifications for the same
// download from ever colliding.
func NewNotificationID(downloadID int64) string {
	return fmt.Sprintf("%s-%d-%s", notificationIDPrefix, downloadID, uuid.NewString())
}

// Show displays a notification for the download and schedules its removal:
// clear after displayTime, forget the mapping a grace delay later. Display
// and clear failures are logged, never retried.
func (t *Tracker) Show(ctx context.Context, downloadID int64, opts browser.NotificationOptions, displayTime time.Duration) string {
	logger := logctx.LoggerFromContext(ctx).With("download_id", downloadID)

	id := NewNotificationID(downloadID)

	t.mu.Lock()
	t.byNotifs[id] = downloadID
	t.mu.Unlock()

	confirmed, err := t.notifications.Create(ctx, id, opts)
	if err != nil {
		logger.Error("failed to create notification", "notification_id", id, "err", err)

		// never displayed, never clickable
		t.forget(id)

		return ""
	}

	time.AfterFunc(displayTime, func() {
		if _, err := t.notifications.Clear(ctx, confirmed); err != nil {
			logger.Error("failed to clear notification", "notification_id", confirmed, "err", err)
		}

		time.AfterFunc(t.graceDelay, func() {
			t.forget(id)
		})
	})

	return confirmed
}

// Resolve consumes the mapping for a clicked notification, returning the
// download it was shown for. A second resolve for the same id misses.
func (t *Tracker) Resolve(notificationID string) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	downloadID, ok := t.byNotifs[notificationID]
	if ok {
		delete(t.byNotifs, notificationID)
	}

	return downloadID, ok
}

// Tracked reports whether a mapping currently exists for the notification.
func (t *Tracker) Tracked(notificationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.byNotifs[notificationID]

	return ok
}

func (t *Tracker) forget(notificationID string) {
	t.mu.Lock()
	delete(t.byNotifs, notificationID)
	t.mu.Unlock()
}
