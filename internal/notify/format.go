package notify

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Category is a file-type class with an emoji glyph used in the
// notification message body.
type Category int

const (
	CategoryArchive Category = iota
	CategoryVideo
	CategoryExecutable
	CategoryAudio
	CategoryDiscImage
	CategoryDocument
	CategoryImage
)

// Glyph returns the category's emoji code point.
func (c Category) Glyph() rune {
	switch c {
	case CategoryArchive:
		return 0x1F5DC
	case CategoryVideo:
		return 0x1F39E
	case CategoryExecutable:
		return 0x1F5A5
	case CategoryAudio:
		return 0x1F3B5
	case CategoryDiscImage:
		return 0x1F4BF
	case CategoryImage:
		return 0x1F5BC
	default:
		return 0x1F4C4
	}
}

// categoryPatterns is checked in order; the first match wins.
var categoryPatterns = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategoryArchive, regexp.MustCompile(`(?i)\.(zip|rar|7z|z[0-9]{2}|lzh|z|tar|gz|cab|bz2|sit)$`)},
	{CategoryVideo, regexp.MustCompile(`(?i)\.(avi|wmv|mp4|mkv|mpg|mpeg|mov|ra|webm|flv|vod|ogv)$`)},
	{CategoryExecutable, regexp.MustCompile(`(?i)\.(exe|scr)$`)},
	{CategoryAudio, regexp.MustCompile(`(?i)\.(mp3|ogg|ape|mid|aac|flac|tta|wav|wma)$`)},
	{CategoryDiscImage, regexp.MustCompile(`(?i)\.(iso|mdf|mds|cue|ccd|cdi|img)$`)},
	{CategoryDocument, regexp.MustCompile(`(?i)\.(txt|doc|xls|docx|xlsx|odt|pdf|rtf|log|md|html|htm|xml)$`)},
	{CategoryImage, regexp.MustCompile(`(?i)\.(bmp|jpg|gif|png|webp|pic|mng|psd|tga|tiff|tif|svg)$`)},
}

// ClassifyFile maps a filename to its category by extension,
// case-insensitively. Unmatched names fall back to the document category.
func ClassifyFile(filename string) Category {
	for _, cp := range categoryPatterns {
		if cp.pattern.MatchString(filename) {
			return cp.category
		}
	}

	return CategoryDocument
}

var sizeLabels = []string{"bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// sizeCarryThreshold pushes near-four-digit values into the next unit:
// 999.5 KB reads better as a small MB figure than as a crowded KB label.
const sizeCarryThreshold = 999

// FormatSize renders a byte count as a human-readable label, stepping
// through 1024-based units. Past the byte unit, a remaining value at or
// beyond the carry threshold takes one extra unit step. Bytes print as a
// raw integer; larger units are floored to one decimal. Negative input
// returns "".
func FormatSize(size int64) string {
	if size < 0 {
		return ""
	}

	i := 0
	v := float64(size)

	for v >= 1024 {
		v /= 1024
		i++
	}

	if i > 0 && v >= sizeCarryThreshold {
		v /= 1024
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d %s", size, sizeLabels[i])
	}

	return fmt.Sprintf("%.1f %s", math.Floor(v*10)/10, sizeLabels[i])
}

// Hostname extracts the host of a URL: the authority segment after the
// scheme, with port and query dropped.
func Hostname(url string) string {
	var hostname string

	if strings.Contains(url, "://") {
		parts := strings.Split(url, "/")
		if len(parts) > 2 {
			hostname = parts[2]
		}
	} else {
		hostname = strings.Split(url, "/")[0]
	}

	hostname = strings.Split(hostname, ":")[0]
	hostname = strings.Split(hostname, "?")[0]

	return hostname
}

// Basename returns the final path segment of a native local file path,
// tolerating both separator styles.
func Basename(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")

	return normalized[strings.LastIndex(normalized, "/")+1:]
}
