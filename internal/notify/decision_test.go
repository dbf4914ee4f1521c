package notify

import (
	"testing"
	"time"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/settings"
	"github.com/stretchr/testify/require"
)

func testSettings() settings.Settings {
	return settings.Settings{
		StartDisplayTime:    5000,
		CompleteDisplayTime: 6000,
		CancelDisplayTime:   7000,
		ErrorDisplayTime:    10000,
		NotifyClickAction:   settings.ClickActionNone,
		IconStyle:           "default",
	}
}

func testItem() browser.DownloadItem {
	return browser.DownloadItem{
		ID:         7,
		URL:        "https://example.com/files/report.pdf",
		Filename:   "/home/user/Downloads/report.pdf",
		State:      browser.StateInProgress,
		FileSize:   -1,
		TotalBytes: 2048,
		Exists:     true,
	}
}

func TestDecide_UserCancel(t *testing.T) {
	delta := browser.DownloadDelta{
		ID:    7,
		State: &browser.StringDelta{Current: string(browser.StateInterrupted)},
		Error: &browser.StringDelta{Current: "USER_CANCELED"},
	}

	d := Decide(delta, testItem(), testSettings())
	require.NotNil(t, d)
	require.Equal(t, KindCancelled, d.Kind)
	require.Equal(t, "download cancel", d.Title)
	require.Equal(t, "icons/default/down-cancel.svg", d.IconPath)
	require.Equal(t, 7000*time.Millisecond, d.DisplayTime)
	require.NotContains(t, d.Message, "USER_CANCELED")
}

func TestDecide_Error(t *testing.T) {
	delta := browser.DownloadDelta{
		ID:    7,
		Error: &browser.StringDelta{Current: "NETWORK_FAILED"},
	}

	d := Decide(delta, testItem(), testSettings())
	require.NotNil(t, d)
	require.Equal(t, KindError, d.Kind)
	require.Equal(t, "download error", d.Title)
	require.Equal(t, "icons/default/down-err.svg", d.IconPath)
	require.Equal(t, 10000*time.Millisecond, d.DisplayTime)
	require.Contains(t, d.Message, "NETWORK_FAILED")
}

// User-triggered interruptions are not worth alerting on.
func TestDecide_UserInitiatedErrorSuppressed(t *testing.T) {
	delta := browser.DownloadDelta{
		ID:    7,
		Error: &browser.StringDelta{Current: "USER_ABORTED_FOO"},
	}

	require.Nil(t, Decide(delta, testItem(), testSettings()))
}

// A delta carrying only an existence change fires when a UI surface
// re-reads an already-finished download; it must stay silent.
func TestDecide_ExistsOnlySuppressed(t *testing.T) {
	item := testItem()
	item.State = ""
	item.Error = ""

	delta := browser.DownloadDelta{
		ID:     7,
		Exists: &browser.BoolDelta{Previous: false, Current: true},
	}

	require.Nil(t, Decide(delta, item, testSettings()))
}

func TestDecide_Started(t *testing.T) {
	delta := browser.DownloadDelta{
		ID:        7,
		State:     &browser.StringDelta{Current: string(browser.StateInProgress)},
		Synthetic: true,
	}

	d := Decide(delta, testItem(), testSettings())
	require.NotNil(t, d)
	require.Equal(t, KindStarted, d.Kind)
	require.Equal(t, "download start", d.Title)
	require.Equal(t, 5000*time.Millisecond, d.DisplayTime)
}

func TestDecide_Completed(t *testing.T) {
	delta := browser.DownloadDelta{
		ID:    7,
		State: &browser.StringDelta{Current: string(browser.StateComplete)},
	}

	d := Decide(delta, testItem(), testSettings())
	require.NotNil(t, d)
	require.Equal(t, KindCompleted, d.Kind)
	require.Equal(t, "download complete", d.Title)
	require.Equal(t, "icons/default/down-comp.svg", d.IconPath)
	require.Equal(t, 6000*time.Millisecond, d.DisplayTime)
}

// When the delta carries no state, the snapshot's state decides.
func TestDecide_StateFallbackFromItem(t *testing.T) {
	item := testItem()
	item.State = browser.StateComplete

	d := Decide(browser.DownloadDelta{ID: 7}, item, testSettings())
	require.NotNil(t, d)
	require.Equal(t, KindCompleted, d.Kind)
}

// When the delta carries no error, the snapshot's error decides. It must
// land in the error, not overwrite the state.
func TestDecide_ErrorFallbackFromItem(t *testing.T) {
	item := testItem()
	item.State = browser.StateInterrupted
	item.Error = "SERVER_FAILED"

	d := Decide(browser.DownloadDelta{ID: 7}, item, testSettings())
	require.NotNil(t, d)
	require.Equal(t, KindError, d.Kind)
	require.Contains(t, d.Message, "SERVER_FAILED")
	require.Equal(t, 10000*time.Millisecond, d.DisplayTime)
}

func TestDecide_MessageBody(t *testing.T) {
	delta := browser.DownloadDelta{
		ID:    7,
		State: &browser.StringDelta{Current: string(browser.StateComplete)},
	}

	d := Decide(delta, testItem(), testSettings())
	require.NotNil(t, d)
	require.Contains(t, d.Message, "example.com")
	require.Contains(t, d.Message, "report.pdf")
	require.Contains(t, d.Message, "(2.0 KB)")
}

// An unknown size leaves the parenthetical off entirely.
func TestDecide_MessageWithoutSize(t *testing.T) {
	item := testItem()
	item.TotalBytes = -1

	delta := browser.DownloadDelta{
		ID:    7,
		State: &browser.StringDelta{Current: string(browser.StateComplete)},
	}

	d := Decide(delta, item, testSettings())
	require.NotNil(t, d)
	require.NotContains(t, d.Message, "(")
}

func TestDecide_IconStyleHonored(t *testing.T) {
	st := testSettings()
	st.IconStyle = "mono"

	delta := browser.DownloadDelta{
		ID:    7,
		State: &browser.StringDelta{Current: string(browser.StateComplete)},
	}

	d := Decide(delta, testItem(), st)
	require.NotNil(t, d)
	require.Equal(t, "icons/mono/down-comp.svg", d.IconPath)
}

func TestIsUserInitiatedError(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"USER_CANCELED", true},
		{"USER_SHUTDOWN", true},
		{"USER_ABORTED_FOO", true},
		{"NETWORK_FAILED", false},
		{"SERVER_BAD_CONTENT", false},
		{"USER_", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsUserInitiatedError(tt.code); got != tt.want {
				t.Errorf("IsUserInitiatedError(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
