package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFilename keeps ASCII letters, digits, '-', '_' and '.', replacing
// anything else with '_'. Directory components are dropped.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// TimestampedFilename turns "report.pdf" into "report_<unix>_<suffix>.pdf".
func TimestampedFilename(name, suffix string, now time.Time) string {
	clean := SanitizeFilename(name)
	ext := strings.ToLower(filepath.Ext(clean))
	base := strings.TrimSuffix(clean, filepath.Ext(clean))
	if base == "" {
		base = "upload"
	}
	if suffix != "" {
		return fmt.Sprintf("%s_%d_%s%s", base, now.Unix(), suffix, ext)
	}
	return fmt.Sprintf("%s_%d%s", base, now.Unix(), ext)
}
