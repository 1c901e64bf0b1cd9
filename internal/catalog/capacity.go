// internal/catalog/capacity.go
package catalog

import (
	"strconv"
	"strings"
)

// ParseCapacityAh returns the leading integer of a capacity label such as
// "100Ah". Labels without a leading number parse as 0 so a malformed entry
// only degrades its own ranking.
func ParseCapacityAh(capacity string) int {
	s := strings.TrimSpace(capacity)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
