package notify

import "testing"

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{name: "negative is unknown", size: -1, want: ""},
		{name: "zero bytes", size: 0, want: "0 bytes"},
		{name: "bytes stay integral", size: 1023, want: "1023 bytes"},
		{name: "one kilobyte", size: 1024, want: "1.0 KB"},
		{name: "floored decimal", size: 1536, want: "1.5 KB"},
		{name: "megabytes", size: 5 * 1024 * 1024, want: "5.0 MB"},
		{name: "gigabytes", size: 3 * 1024 * 1024 * 1024, want: "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSize(tt.size); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

// Values near the top of a unit take one extra step, so labels never
// crowd four digits. Bytes are exempt: 1023 stays "1023 bytes".
func TestFormatSize_CarriesNearUnitTop(t *testing.T) {
	got := FormatSize(999 * 1024)
	if got != "0.9 MB" {
		t.Errorf("FormatSize(999*1024) = %q, want %q", got, "0.9 MB")
	}

	got = FormatSize(1000 * 1024)
	if got != "0.9 MB" {
		t.Errorf("FormatSize(1000*1024) = %q, want %q", got, "0.9 MB")
	}
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		filename string
		want     Category
	}{
		{"archive.zip", CategoryArchive},
		{"Archive.ZIP", CategoryArchive},
		{"split.z01", CategoryArchive},
		{"movie.mkv", CategoryVideo},
		{"setup.exe", CategoryExecutable},
		{"Setup.EXE", CategoryExecutable},
		{"song.flac", CategoryAudio},
		{"distro.iso", CategoryDiscImage},
		{"report.pdf", CategoryDocument},
		{"photo.png", CategoryImage},
		{"unknown.xyz", CategoryDocument},
		{"no-extension", CategoryDocument},
		{"", CategoryDocument},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := ClassifyFile(tt.filename); got != tt.want {
				t.Errorf("ClassifyFile(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

// Only the final extension decides the category, in priority order: a
// tarball of images is still an archive.
func TestClassifyFile_PriorityOrder(t *testing.T) {
	if got := ClassifyFile("photos.png.zip"); got != CategoryArchive {
		t.Errorf("ClassifyFile(photos.png.zip) = %v, want %v", got, CategoryArchive)
	}

	if got := ClassifyFile("backup.zip.png"); got != CategoryImage {
		t.Errorf("ClassifyFile(backup.zip.png) = %v, want %v", got, CategoryImage)
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/files/a.zip", "example.com"},
		{"http://example.com:8080/a.zip", "example.com"},
		{"https://cdn.example.com/a?token=b", "cdn.example.com"},
		{"example.com/a.zip", "example.com"},
		{"ftp://files.example.org/pub/a.iso", "files.example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Hostname(tt.url); got != tt.want {
				t.Errorf("Hostname(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestBasename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/user/Downloads/a.zip", "a.zip"},
		{`C:\Users\user\Downloads\a.zip`, "a.zip"},
		{"a.zip", "a.zip"},
		{`mixed/path\deep\a.zip`, "a.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Basename(tt.path); got != tt.want {
				t.Errorf("Basename(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
