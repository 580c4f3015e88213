package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToBool converts table field text to bool.
// Only "true" is true, ignoring case and surrounding whitespace; "1", "yes"
// and anything unparseable are false.
func ToBool(val string) bool {
	return strings.EqualFold(strings.TrimSpace(val), "true")
}

// ParseUint32 parses decimal text into a uint32, tolerating surrounding whitespace.
func ParseUint32(val string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(val), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse uint32 %q: %w", val, err)
	}
	return uint32(n), nil
}
