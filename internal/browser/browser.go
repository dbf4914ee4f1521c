// Package browser declares the contracts of the browser-side collaborators:
// the download manager, the notification surface and the tab list. The
// daemon never touches these capabilities directly; it reaches them through
// the helper bridge, which implements the interfaces below.
package browser

import "context"

// State is the lifecycle state of a download as the browser reports it.
type State string

const (
	StateInProgress  State = "in_progress"
	StateComplete    State = "complete"
	StateInterrupted State = "interrupted"
)

// DownloadItem is the authoritative, fully-queried snapshot of a download.
// FileSize and TotalBytes are negative when the browser does not know them;
// the first non-negative of the two is the displayable size.
type DownloadItem struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	State      State  `json:"state"`
	Error      string `json:"error,omitempty"`
	FileSize   int64  `json:"fileSize"`
	TotalBytes int64  `json:"totalBytes"`
	Exists     bool   `json:"exists"`
}

// Size returns the displayable byte count, or -1 when unknown.
func (d DownloadItem) Size() int64 {
	if d.FileSize >= 0 {
		return d.FileSize
	}

	if d.TotalBytes >= 0 {
		return d.TotalBytes
	}

	return -1
}

// StringDelta carries a changed string field of a download.
type StringDelta struct {
	Previous string `json:"previous,omitempty"`
	Current  string `json:"current,omitempty"`
}

// BoolDelta carries a changed boolean field of a download.
type BoolDelta struct {
	Previous bool `json:"previous"`
	Current  bool `json:"current"`
}

// DownloadDelta is a partial description of what changed about a download.
// The browser emits these on change events; the created event carries no
// delta shape, so the watcher fabricates one with Synthetic set.
type DownloadDelta struct {
	ID     int64        `json:"id"`
	State  *StringDelta `json:"state,omitempty"`
	Error  *StringDelta `json:"error,omitempty"`
	Exists *BoolDelta   `json:"exists,omitempty"`

	// Synthetic marks deltas fabricated locally for the created event.
	Synthetic bool `json:"-"`
}

// SearchQuery filters a download search. Zero-valued fields are not sent.
type SearchQuery struct {
	ID     int64 `json:"id,omitempty"`
	State  State `json:"state,omitempty"`
	Exists *bool `json:"exists,omitempty"`
	Limit  int   `json:"limit,omitempty"`
}

// Downloads is the browser download manager.
type Downloads interface {
	// Search returns zero or more downloads matching the query.
	Search(ctx context.Context, q SearchQuery) ([]DownloadItem, error)
	// Show reveals the given download in the platform file manager.
	Show(ctx context.Context, id int64) error
	// ShowDefaultFolder opens the browser's default downloads folder.
	ShowDefaultFolder(ctx context.Context) error
}

// NotificationOptions describes a notification to display.
type NotificationOptions struct {
	Type    string `json:"type"`
	IconURL string `json:"iconUrl"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifications is the browser notification surface.
type Notifications interface {
	// Create displays a notification and returns the confirmed id.
	Create(ctx context.Context, id string, opts NotificationOptions) (string, error)
	// Clear removes a notification. The boolean reports whether one existed.
	Clear(ctx context.Context, id string) (bool, error)
}

// Tab is a browser tab as returned by a tab query.
type Tab struct {
	ID       int64 `json:"id"`
	WindowID int64 `json:"windowId"`
	Active   bool  `json:"active"`
	Audible  bool  `json:"audible"`
}

// TabQuery filters a tab query.
type TabQuery struct {
	CurrentWindow bool  `json:"currentWindow,omitempty"`
	Active        bool  `json:"active,omitempty"`
	Audible       *bool `json:"audible,omitempty"`
}

// Tabs is the browser tab list.
type Tabs interface {
	Query(ctx context.Context, q TabQuery) ([]Tab, error)
}
