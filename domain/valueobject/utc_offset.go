package valueobject

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OffsetUnavailable is shown when no offset could be derived for a zone.
const OffsetUnavailable = "UTC Offset N/A"

// offsetTokenPattern matches zone-name tokens that carry a numeric offset,
// e.g. "GMT-5", "UTC+05:30", "+0545", "-03".
var offsetTokenPattern = regexp.MustCompile(`^(?:GMT|UTC)?([+-])(\d{1,2})(?::?(\d{2}))?$`)

// NormalizeOffsetToken converts an offset-bearing zone token into the canonical
// "UTC±HH:MM" form. Alphabetic abbreviations such as "EST" are not offset
// tokens and report false.
func NormalizeOffsetToken(token string) (string, bool) {
	token = strings.TrimSpace(token)
	switch strings.ToUpper(token) {
	case "GMT", "UTC", "Z":
		return "UTC+00:00", true
	}

	m := offsetTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}

	hours, err := strconv.Atoi(m[2])
	if err != nil || hours > 23 {
		return "", false
	}
	minutes := 0
	if m[3] != "" {
		minutes, err = strconv.Atoi(m[3])
		if err != nil || minutes > 59 {
			return "", false
		}
	}

	return fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, minutes), true
}

// FormatOffsetSeconds renders an offset east of UTC as "UTC±HH:MM".
// Zero is rendered with a plus sign. Sub-minute remainders are dropped.
func FormatOffsetSeconds(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("UTC%s%02d:%02d", sign, hours, minutes)
}
