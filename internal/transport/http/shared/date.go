package shared

import (
	"strings"
	"time"
)

// dateLayouts lists the forms date fields accept. Day precision
// (YYYY-MM-DD) is the canonical one; full RFC3339 stamps are tolerated for
// clients that serialize whole time values.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses an optional date field. A blank value yields the zero
// time with no error, so callers treat blank and absent alike.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range dateLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, err
}
