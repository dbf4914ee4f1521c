package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/settings"
	"github.com/downwatch/downwatch/internal/storage"
	"github.com/stretchr/testify/require"
)

// fakeDownloads implements browser.Downloads for testing.
type fakeDownloads struct {
	mu            sync.Mutex
	items         map[int64]browser.DownloadItem
	shown         []int64
	defaultFolder int
}

func newFakeDownloads(items ...browser.DownloadItem) *fakeDownloads {
	f := &fakeDownloads{items: make(map[int64]browser.DownloadItem)}
	for _, item := range items {
		f.items[item.ID] = item
	}

	return f
}

func (f *fakeDownloads) set(item browser.DownloadItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[item.ID] = item
}

func (f *fakeDownloads) Search(_ context.Context, q browser.SearchQuery) ([]browser.DownloadItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[q.ID]
	if !ok {
		return nil, nil
	}

	if q.State != "" && item.State != q.State {
		return nil, nil
	}

	if q.Exists != nil && item.Exists != *q.Exists {
		return nil, nil
	}

	return []browser.DownloadItem{item}, nil
}

func (f *fakeDownloads) Show(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shown = append(f.shown, id)

	return nil
}

func (f *fakeDownloads) ShowDefaultFolder(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.defaultFolder++

	return nil
}

func (f *fakeDownloads) shownIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]int64(nil), f.shown...)
}

// fakeTabs implements browser.Tabs for testing.
type fakeTabs struct {
	tabs []browser.Tab
	err  error
}

func (f *fakeTabs) Query(_ context.Context, _ browser.TabQuery) ([]browser.Tab, error) {
	return f.tabs, f.err
}

// memoryBlobs is an in-memory storage.BlobRepository.
type memoryBlobs struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: make(map[string][]byte)}
}

func (m *memoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return blob, nil
}

func (m *memoryBlobs) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = value

	return nil
}

type watcherFixture struct {
	watcher   *Watcher
	tracker   *Tracker
	downloads *fakeDownloads
	tabs      *fakeTabs
	notifs    *fakeNotifications
	store     *settings.Store
}

func newWatcherFixture(t *testing.T, downloads *fakeDownloads, tabs *fakeTabs, st settings.Settings) *watcherFixture {
	t.Helper()

	store := settings.NewStore(newMemoryBlobs())
	require.NoError(t, store.Save(context.Background(), st))

	notifs := &fakeNotifications{}
	tracker := NewTracker(notifs, time.Hour)
	watcher := NewWatcher(downloads, tabs, store, tracker, nil, time.Millisecond, time.Millisecond)

	return &watcherFixture{
		watcher:   watcher,
		tracker:   tracker,
		downloads: downloads,
		tabs:      tabs,
		notifs:    notifs,
		store:     store,
	}
}

func (fx *watcherFixture) createdTitles() []string {
	fx.notifs.mu.Lock()
	defer fx.notifs.mu.Unlock()

	titles := make([]string, 0, len(fx.notifs.created))
	for _, opts := range fx.notifs.created {
		titles = append(titles, opts.Title)
	}

	return titles
}

func TestWatcher_CreatedFiresStartNotification(t *testing.T) {
	downloads := newFakeDownloads(testItem())
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, testSettings())

	fx.watcher.HandleDownloadCreated(context.Background(), 7)

	require.Eventually(t, func() bool {
		return len(fx.createdTitles()) == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, []string{"download start"}, fx.createdTitles())
}

// The query after the debounce is authoritative: no match, no notification.
func TestWatcher_SearchMissAborts(t *testing.T) {
	downloads := newFakeDownloads()
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, testSettings())

	fx.watcher.HandleDownloadCreated(context.Background(), 42)

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, fx.createdTitles())
}

func TestWatcher_WatchGateSuppresses(t *testing.T) {
	st := testSettings()
	st.DisableWatching = true

	downloads := newFakeDownloads(testItem())

	// no active inaudible tab anywhere: the user is consuming media
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, st)

	fx.watcher.HandleDownloadCreated(context.Background(), 7)

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, fx.createdTitles())
}

func TestWatcher_WatchGatePassesWithIdleTab(t *testing.T) {
	st := testSettings()
	st.DisableWatching = true

	downloads := newFakeDownloads(testItem())
	tabs := &fakeTabs{tabs: []browser.Tab{{ID: 1, Active: true, Audible: false}}}
	fx := newWatcherFixture(t, downloads, tabs, st)

	fx.watcher.HandleDownloadCreated(context.Background(), 7)

	require.Eventually(t, func() bool {
		return len(fx.createdTitles()) == 1
	}, time.Second, time.Millisecond)
}

// Full pass through the pipeline: start on creation, complete on the later
// delta, reveal on click.
func TestWatcher_EndToEnd(t *testing.T) {
	st := testSettings()
	st.NotifyClickAction = settings.ClickActionReveal

	item := testItem()
	downloads := newFakeDownloads(item)
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, st)

	ctx := context.Background()

	fx.watcher.HandleDownloadCreated(ctx, 7)

	require.Eventually(t, func() bool {
		return len(fx.createdTitles()) == 1
	}, time.Second, time.Millisecond)

	item.State = browser.StateComplete
	downloads.set(item)

	fx.watcher.HandleDownloadChanged(ctx, browser.DownloadDelta{
		ID:    7,
		State: &browser.StringDelta{Previous: string(browser.StateInProgress), Current: string(browser.StateComplete)},
	})

	require.Eventually(t, func() bool {
		return len(fx.createdTitles()) == 2
	}, time.Second, time.Millisecond)
	require.Equal(t, []string{"download start", "download complete"}, fx.createdTitles())

	fx.notifs.mu.Lock()
	completedID := fx.notifs.createdIDs[1]
	fx.notifs.mu.Unlock()

	fx.watcher.HandleNotificationClicked(ctx, completedID)

	require.Equal(t, []int64{7}, downloads.shownIDs())
	require.False(t, fx.tracker.Tracked(completedID))
}

func TestWatcher_ClickActionNoneIgnoresClick(t *testing.T) {
	downloads := newFakeDownloads(testItem())
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, testSettings())

	fx.watcher.HandleDownloadCreated(context.Background(), 7)

	require.Eventually(t, func() bool {
		return len(fx.createdTitles()) == 1
	}, time.Second, time.Millisecond)

	fx.notifs.mu.Lock()
	id := fx.notifs.createdIDs[0]
	fx.notifs.mu.Unlock()

	fx.watcher.HandleNotificationClicked(context.Background(), id)

	require.Empty(t, downloads.shownIDs())

	// the record was not consumed either
	require.True(t, fx.tracker.Tracked(id))
}

// A clicked download that is no longer complete+existing falls back to the
// default downloads folder.
func TestWatcher_ClickFallsBackToFolder(t *testing.T) {
	st := testSettings()
	st.NotifyClickAction = settings.ClickActionReveal

	item := testItem()
	item.State = browser.StateInProgress

	downloads := newFakeDownloads(item)
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, st)

	fx.watcher.HandleDownloadCreated(context.Background(), 7)

	require.Eventually(t, func() bool {
		return len(fx.createdTitles()) == 1
	}, time.Second, time.Millisecond)

	fx.notifs.mu.Lock()
	id := fx.notifs.createdIDs[0]
	fx.notifs.mu.Unlock()

	fx.watcher.HandleNotificationClicked(context.Background(), id)

	require.Empty(t, downloads.shownIDs())

	fx.downloads.mu.Lock()
	folderOpens := fx.downloads.defaultFolder
	fx.downloads.mu.Unlock()
	require.Equal(t, 1, folderOpens)
}

func TestWatcher_ClickUnknownIDNoOps(t *testing.T) {
	st := testSettings()
	st.NotifyClickAction = settings.ClickActionReveal

	downloads := newFakeDownloads(testItem())
	fx := newWatcherFixture(t, downloads, &fakeTabs{}, st)

	fx.watcher.HandleNotificationClicked(context.Background(), "sdn-id-7-unknown")

	require.Empty(t, downloads.shownIDs())
}
