// Package settings holds the process-wide notification configuration: how
// long each notification class stays on screen, what a click does, whether
// the watch gate is armed and which icon style set to use.
package settings

// ClickAction selects what happens when the user clicks a notification.
type ClickAction int

const (
	// ClickActionNone ignores the click.
	ClickActionNone ClickAction = 1
	// ClickActionReveal reveals the downloaded file in the file manager.
	ClickActionReveal ClickAction = 2
)

// Display time defaults, in milliseconds.
const (
	DefaultStartDisplayTime    int64 = 5000
	DefaultCompleteDisplayTime int64 = 5000
	DefaultCancelDisplayTime   int64 = 5000
	DefaultErrorDisplayTime    int64 = 10000
)

// DefaultIconStyle is the icon style used when none is configured.
const DefaultIconStyle = "default"

// Settings is the configuration blob shared with the settings UI. Field
// names match the wire protocol; display times are milliseconds.
type Settings struct {
	StartDisplayTime    int64       `json:"startDisplayTime"`
	CompleteDisplayTime int64       `json:"completeDisplayTime"`
	CancelDisplayTime   int64       `json:"cancelDisplayTime"`
	ErrorDisplayTime    int64       `json:"errorDisplayTime"`
	NotifyClickAction   ClickAction `json:"notifyClickAction"`
	DisableWatching     bool        `json:"disableWatching"`
	IconStyle           string      `json:"iconStyle"`
}

// Default returns a Settings with every field at its documented default.
func Default() Settings {
	return Settings{
		StartDisplayTime:    DefaultStartDisplayTime,
		CompleteDisplayTime: DefaultCompleteDisplayTime,
		CancelDisplayTime:   DefaultCancelDisplayTime,
		ErrorDisplayTime:    DefaultErrorDisplayTime,
		NotifyClickAction:   ClickActionNone,
		DisableWatching:     false,
		IconStyle:           DefaultIconStyle,
	}
}

// raw mirrors Settings with pointer fields so that absent JSON keys can be
// told apart from zero values when default-filling.
type raw struct {
	StartDisplayTime    *int64       `json:"startDisplayTime"`
	CompleteDisplayTime *int64       `json:"completeDisplayTime"`
	CancelDisplayTime   *int64       `json:"cancelDisplayTime"`
	ErrorDisplayTime    *int64       `json:"errorDisplayTime"`
	NotifyClickAction   *ClickAction `json:"notifyClickAction"`
	DisableWatching     *bool        `json:"disableWatching"`
	IconStyle           *string      `json:"iconStyle"`
}

// settings materializes a raw blob, filling every missing field with its default.
func (r raw) settings() Settings {
	s := Default()

	if r.StartDisplayTime != nil {
		s.StartDisplayTime = *r.StartDisplayTime
	}

	if r.CompleteDisplayTime != nil {
		s.CompleteDisplayTime = *r.CompleteDisplayTime
	}

	if r.CancelDisplayTime != nil {
		s.CancelDisplayTime = *r.CancelDisplayTime
	}

	if r.ErrorDisplayTime != nil {
		s.ErrorDisplayTime = *r.ErrorDisplayTime
	}

	if r.NotifyClickAction != nil {
		s.NotifyClickAction = *r.NotifyClickAction
	}

	if r.DisableWatching != nil {
		s.DisableWatching = *r.DisableWatching
	}

	if r.IconStyle != nil {
		s.IconStyle = *r.IconStyle
	}

	return s
}
