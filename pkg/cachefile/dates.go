package cachefile

import (
	"fmt"
	"time"
)

// expiryFormats are the accepted date-string layouts for a new expiry,
// tried in order. All are interpreted in local time.
var expiryFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseExpiry parses a user-supplied expiry date string in one of the
// accepted formats, in local time.
func ParseExpiry(s string) (time.Time, error) {
	for _, layout := range expiryFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
