package core

import "time"

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// IsISODate reports whether s is a valid YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}
