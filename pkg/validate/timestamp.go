// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"strconv"
	"time"
)

// isValidTimestamp reports whether s is a valid RFC3339 date-time, the
// only shape the "timestamp" type accepts. Unlike JSON Schema's
// "format" keyword, JTD's timestamp type is a genuine type check, not
// an annotation, so this is load-bearing rather than advisory.
func isValidTimestamp(s string) bool {
	// date-time = full-date "T" full-time
	if len(s) < dateLen {
		return false
	}
	if !isValidDate(s[:dateLen]) {
		return false
	}
	s = s[dateLen:]
	if len(s) == 0 || (s[0] != 'T' && s[0] != 't') {
		return false
	}
	return isValidTime(s[1:])
}

// dateLen is the length of an RFC3339 full-date.
const dateLen = 10

// isValidDate reports whether s is a valid RFC3339 full-date, i.e.
// YYYY-MM-DD with a real calendar day.
func isValidDate(s string) bool {
	if len(s) != dateLen {
		return false
	}
	if s[4] != '-' || s[7] != '-' {
		return false
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(s[5:7])
	if err != nil {
		return false
	}
	mday, err := strconv.Atoi(s[8:])
	if err != nil {
		return false
	}

	if year < 0 || month < 1 || month > 12 || mday < 1 || mday > 31 {
		return false
	}
	dy, dm, dd := time.Date(year, time.Month(month), mday, 0, 0, 0, 0, time.UTC).Date()
	return dy == year && dm == time.Month(month) && dd == mday
}

// isValidTime reports whether s is a valid RFC3339 full-time, i.e.
// HH:MM:SS[frac]offset, tolerating a leap second (:60) when the offset
// makes the moment 23:59:60 UTC.
func isValidTime(s string) bool {
	if len(s) < 8 {
		return false
	}
	if s[2] != ':' || s[5] != ':' {
		return false
	}

	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return false
	}
	minute, err := strconv.Atoi(s[3:5])
	if err != nil {
		return false
	}
	second, err := strconv.Atoi(s[6:8])
	if err != nil {
		return false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 60 {
		return false
	}

	s = s[8:]
	if len(s) > 0 && s[0] == '.' {
		s = s[1:]
		if len(s) == 0 {
			return false
		}
		for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
			s = s[1:]
		}
	}

	if len(s) == 0 {
		return false
	}
	negOffset := false
	switch s[0] {
	case 'Z', 'z':
		if second == 60 && (hour != 23 || minute != 59) {
			return false
		}
		return len(s) == 1
	case '+':
		s = s[1:]
	case '-':
		negOffset = true
		s = s[1:]
	default:
		return false
	}

	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hourOffset, err := strconv.Atoi(s[:2])
	if err != nil {
		return false
	}
	minuteOffset, err := strconv.Atoi(s[3:])
	if err != nil {
		return false
	}
	if hourOffset < 0 || hourOffset > 23 || minuteOffset < 0 || minuteOffset > 59 {
		return false
	}

	if second == 60 {
		if !negOffset {
			hourOffset = -hourOffset
			minuteOffset = -minuteOffset
		}
		if (hour+hourOffset != 23 && hour+hourOffset != 0) || (minute+minuteOffset != 59 && minute+minuteOffset != -1) {
			return false
		}
	}

	return true
}
