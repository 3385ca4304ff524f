package service

import (
	"regexp"
	"strings"
	"sync"
)

var (
	fencePatterns   = map[string]*regexp.Regexp{}
	fencePatternsMu sync.Mutex
)

func fencePattern(lang string) *regexp.Regexp {
	fencePatternsMu.Lock()
	defer fencePatternsMu.Unlock()
	if re, ok := fencePatterns[lang]; ok {
		return re
	}
	re := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(lang) + `\s*(.*?)\s*` + "```")
	fencePatterns[lang] = re
	return re
}

// ExtractCode returns the body of the first ```lang fenced block in response,
// or "" when there is none.
func ExtractCode(response, lang string) string {
	matches := fencePattern(lang).FindStringSubmatch(response)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}
