// Package utils holds small generic helpers with no domain knowledge.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty or not
// a valid integer. Used for query-string pagination parameters.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
