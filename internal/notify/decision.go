package notify

import (
	"fmt"
	"regexp"
	"time"

	"github.com/downwatch/downwatch/internal/browser"
	"github.com/downwatch/downwatch/internal/settings"
)

// Kind is the notification class a lifecycle transition maps to.
type Kind string

const (
	KindStarted   Kind = "started"
	KindCompleted Kind = "completed"
	KindCancelled Kind = "cancelled"
	KindError     Kind = "error"
)

// ErrorCodeUserCancel is the browser's interrupt reason for a download the
// user cancelled themselves.
const ErrorCodeUserCancel = "USER_CANCELED"

const (
	hostGlyph  rune = 0x1F4E1
	alertGlyph rune = 0x1F4A3
)

// userInitiatedCodes is the closed set of interrupt reasons known to be
// direct user actions. Codes outside the set still count as user-initiated
// when they match the USER_ naming convention.
var userInitiatedCodes = map[string]struct{}{
	"USER_CANCELED": {},
	"USER_SHUTDOWN": {},
}

var userInitiatedPattern = regexp.MustCompile(`^USER_.+$`)

// IsUserInitiatedError reports whether an interrupt reason was triggered by
// the user rather than by a failure worth alerting on.
func IsUserInitiatedError(code string) bool {
	if _, ok := userInitiatedCodes[code]; ok {
		return true
	}

	return userInitiatedPattern.MatchString(code)
}

// Decision is a fully computed notification: what to show and for how long.
type Decision struct {
	Kind        Kind
	Title       string
	IconPath    string
	Message     string
	DisplayTime time.Duration
}

// Decide maps a settled lifecycle delta plus the re-queried download
// snapshot to a notification, or nil when nothing should be shown.
//
// State and error resolve from the delta first and fall back to the
// snapshot. A delta carrying only an existence change is suppressed: some
// browser surfaces re-read finished downloads and fire a spurious change
// event with nothing but exists set.
func Decide(delta browser.DownloadDelta, item browser.DownloadItem, st settings.Settings) *Decision {
	var currentState browser.State

	var currentError string

	if delta.State != nil && delta.State.Current != "" {
		currentState = browser.State(delta.State.Current)
	}

	if delta.Error != nil && delta.Error.Current != "" {
		currentError = delta.Error.Current
	}

	if currentState == "" && currentError == "" && delta.Exists != nil {
		return nil
	}

	if currentState == "" {
		currentState = item.State
	}

	if currentError == "" {
		currentError = item.Error
	}

	d := Decision{DisplayTime: -1}

	var icon string

	switch {
	case currentState == browser.StateInterrupted && currentError == ErrorCodeUserCancel:
		d.Kind = KindCancelled
		d.Title = "download cancel"
		icon = "down-cancel"
		d.DisplayTime = displayTime(st.CancelDisplayTime)
	case currentError != "":
		d.Kind = KindError
		d.Title = "download error"
		icon = "down-err"

		if !IsUserInitiatedError(currentError) {
			d.DisplayTime = displayTime(st.ErrorDisplayTime)
		}
	case currentState == browser.StateInProgress:
		d.Kind = KindStarted
		d.Title = "download start"
		icon = "down-start"
		d.DisplayTime = displayTime(st.StartDisplayTime)
	case currentState == browser.StateComplete:
		d.Kind = KindCompleted
		d.Title = "download complete"
		icon = "down-comp"
		d.DisplayTime = displayTime(st.CompleteDisplayTime)
	}

	if d.DisplayTime < 0 || icon == "" {
		return nil
	}

	style := st.IconStyle
	if style == "" {
		style = settings.DefaultIconStyle
	}

	d.IconPath = fmt.Sprintf("icons/%s/%s.svg", style, icon)

	filename := Basename(item.Filename)
	message := fmt.Sprintf("%c:%s\n%c:%s", hostGlyph, Hostname(item.URL), ClassifyFile(filename).Glyph(), filename)

	if size := item.Size(); size >= 0 {
		message += fmt.Sprintf(" (%s)", FormatSize(size))
	}

	if d.Kind == KindError {
		message += fmt.Sprintf("\n%c:%s", alertGlyph, currentError)
	}

	d.Message = message

	return &d
}

func displayTime(ms int64) time.Duration {
	if ms < 0 {
		return -1
	}

	return time.Duration(ms) * time.Millisecond
}
