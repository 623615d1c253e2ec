package timex

import (
	"fmt"
	"strings"
	"time"
)

// CapsuleOption is a preset delay for opening a time capsule.
type CapsuleOption string

const (
	OptionOneMonth    CapsuleOption = "1m"
	OptionThreeMonths CapsuleOption = "3m"
	OptionSixMonths   CapsuleOption = "6m"
	OptionOneYear     CapsuleOption = "1y"
)

// dateLayouts are tried in order for custom open dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// ResolveOpenDate turns a preset option or a custom date into an absolute
// open date relative to now. Custom dates are interpreted in now's location.
func ResolveOpenDate(option string, now time.Time) (time.Time, error) {
	switch CapsuleOption(strings.ToLower(strings.TrimSpace(option))) {
	case OptionOneMonth:
		return now.AddDate(0, 1, 0), nil
	case OptionThreeMonths:
		return now.AddDate(0, 3, 0), nil
	case OptionSixMonths:
		return now.AddDate(0, 6, 0), nil
	case OptionOneYear:
		return now.AddDate(1, 0, 0), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(option), now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unknown open date %q: use 1m, 3m, 6m, 1y or YYYY-MM-DD", option)
}
