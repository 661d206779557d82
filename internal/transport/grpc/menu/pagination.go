package menu

import (
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// encodePageToken uses a plain offset string.
func encodePageToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return strconv.Itoa(offset)
}

func decodePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// page returns the window of n items starting at offset and the token of the
// next window, empty on the last page.
func page(n, offset, size int) (start, end int, next string) {
	start = min(offset, n)
	end = min(start+size, n)
	if end < n {
		next = encodePageToken(end)
	}
	return start, end, next
}
