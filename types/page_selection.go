package types

import (
	"errors"
	"strconv"
	"strings"
)

// MaxSelectedPages caps how many pages a single request may OCR.
const MaxSelectedPages = 2

var (
	ErrInvalidPages = errors.New("invalid page numbers entered")
	ErrTooManyPages = errors.New("please select a maximum of 2 pages")
)

// PageSelection is an ordered set of 1-based page indices. Empty means all pages.
type PageSelection []int

// ParsePageSelection parses a comma separated list such as "3, 1".
// Blank entries are ignored and duplicates collapse onto their first occurrence.
func ParsePageSelection(raw string) (PageSelection, error) {
	selection := PageSelection{}
	seen := make(map[int]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		page, err := strconv.Atoi(token)
		if err != nil || page < 1 {
			return nil, ErrInvalidPages
		}
		if _, dup := seen[page]; dup {
			continue
		}
		seen[page] = struct{}{}
		selection = append(selection, page)
	}
	if len(selection) > MaxSelectedPages {
		return nil, ErrTooManyPages
	}
	return selection, nil
}

// Contains reports whether page is selected. An empty selection contains every page.
func (s PageSelection) Contains(page int) bool {
	if len(s) == 0 {
		return true
	}
	for _, p := range s {
		if p == page {
			return true
		}
	}
	return false
}

// Filter returns the pages of a document with totalPages pages that should be
// processed, in ascending page order.
func (s PageSelection) Filter(totalPages int) []int {
	pages := make([]int, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		if s.Contains(page) {
			pages = append(pages, page)
		}
	}
	return pages
}
