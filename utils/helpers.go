package utils

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParsePagination normalizes page/limit query values.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page = DefaultPage
	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	limit = DefaultLimit
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// TotalPages computes the page count for a row total, never less than 1 page
// of math: 0 rows yields 0 pages.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ParseDays normalizes a trailing-window query value.
func ParseDays(daysStr string, fallback int) int {
	if daysStr == "" {
		return fallback
	}
	d, err := strconv.Atoi(daysStr)
	if err != nil || d <= 0 {
		return fallback
	}
	if d > 365 {
		return 365
	}
	return d
}
