package bridge

import (
	"context"

	"github.com/downwatch/downwatch/internal/browser"
)

// Compile-time checks that the bridge serves all three collaborators.
var (
	_ browser.Downloads     = (*Client)(nil)
	_ browser.Notifications = (*Client)(nil)
	_ browser.Tabs          = (*Client)(nil)
)

// downloadItem is the wire shape of a download snapshot. Size fields are
// pointers because the helper omits them when the browser does not know
// them yet; absent maps to -1 on the domain type.
type downloadItem struct {
	ID         int64  `json:"id"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	State      string `json:"state"`
	Error      string `json:"error"`
	FileSize   *int64 `json:"fileSize"`
	TotalBytes *int64 `json:"totalBytes"`
	Exists     bool   `json:"exists"`
}

func (d downloadItem) toDomain() browser.DownloadItem {
	item := browser.DownloadItem{
		ID:         d.ID,
		URL:        d.URL,
		Filename:   d.Filename,
		State:      browser.State(d.State),
		Error:      d.Error,
		FileSize:   -1,
		TotalBytes: -1,
		Exists:     d.Exists,
	}

	if d.FileSize != nil {
		item.FileSize = *d.FileSize
	}

	if d.TotalBytes != nil {
		item.TotalBytes = *d.TotalBytes
	}

	return item
}

// Search queries the browser download manager through the helper.
func (c *Client) Search(ctx context.Context, q browser.SearchQuery) ([]browser.DownloadItem, error) {
	var wire []downloadItem
	if err := c.call(ctx, "downloads.search", q, &wire); err != nil {
		return nil, err
	}

	items := make([]browser.DownloadItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.toDomain())
	}

	return items, nil
}

// Show reveals the download in the platform file manager.
func (c *Client) Show(ctx context.Context, id int64) error {
	return c.call(ctx, "downloads.show", map[string]int64{"id": id}, nil)
}

// ShowDefaultFolder opens the browser's default downloads folder.
func (c *Client) ShowDefaultFolder(ctx context.Context) error {
	return c.call(ctx, "downloads.showDefaultFolder", nil, nil)
}

type createParams struct {
	ID      string                      `json:"id"`
	Options browser.NotificationOptions `json:"options"`
}

// Create displays a notification and returns the confirmed id.
func (c *Client) Create(ctx context.Context, id string, opts browser.NotificationOptions) (string, error) {
	var confirmed string
	if err := c.call(ctx, "notifications.create", createParams{ID: id, Options: opts}, &confirmed); err != nil {
		return "", err
	}

	return confirmed, nil
}

// Clear removes a notification; the boolean reports whether one existed.
func (c *Client) Clear(ctx context.Context, id string) (bool, error) {
	var wasCleared bool
	if err := c.call(ctx, "notifications.clear", map[string]string{"id": id}, &wasCleared); err != nil {
		return false, err
	}

	return wasCleared, nil
}

// Query lists tabs matching the filter.
func (c *Client) Query(ctx context.Context, q browser.TabQuery) ([]browser.Tab, error) {
	var tabs []browser.Tab
	if err := c.call(ctx, "tabs.query", q, &tabs); err != nil {
		return nil, err
	}

	return tabs, nil
}
