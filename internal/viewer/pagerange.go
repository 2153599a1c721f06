package viewer

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ParsePageRange parses a 1-based page expression such as "1", "2-4",
// "1,3,5", "-3" (pages 1 through 3) or "4-" (page 4 through the last page)
// and returns the matching 0-based page indices, sorted and deduplicated.
func ParsePageRange(expr string, pageCount int) ([]int, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty page range", ErrInvalidPageRange)
	}

	selected := make(map[int]struct{})
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		first, last, err := parseSpan(part, pageCount)
		if err != nil {
			return nil, err
		}
		for page := first; page <= last; page++ {
			selected[page-1] = struct{}{}
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no pages selected", ErrInvalidPageRange)
	}
	return slices.Sorted(maps.Keys(selected)), nil
}

func parseSpan(part string, pageCount int) (int, int, error) {
	lo, hi, isSpan := strings.Cut(part, "-")
	if !isSpan {
		page, err := parsePage(lo, 0)
		if err != nil {
			return 0, 0, err
		}
		if page < 1 || page > pageCount {
			return 0, 0, fmt.Errorf("%w: page %d not in [1-%d]", ErrPageOutOfRange, page, pageCount)
		}
		return page, page, nil
	}

	first, err := parsePage(lo, 1)
	if err != nil {
		return 0, 0, err
	}
	last, err := parsePage(hi, pageCount)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case first < 1:
		return 0, 0, fmt.Errorf("%w: first page must be >= 1", ErrInvalidPageRange)
	case last > pageCount:
		return 0, 0, fmt.Errorf("%w: page %d exceeds page count %d", ErrPageOutOfRange, last, pageCount)
	case first > last:
		return 0, 0, fmt.Errorf("%w: %q runs backwards", ErrInvalidPageRange, part)
	}
	return first, last, nil
}

func parsePage(s string, fallback int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if fallback == 0 {
			return 0, fmt.Errorf("%w: missing page number", ErrInvalidPageRange)
		}
		return fallback, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid page %q", ErrInvalidPageRange, s)
	}
	return n, nil
}
