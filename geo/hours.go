package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ClosingInfo describes whether a venue is about to close.
type ClosingInfo struct {
	IsClosingSoon     bool
	MinutesUntilClose *int
	ClosingTime       string
}

var (
	time24Re  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	time12Re  = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	closingRe = regexp.MustCompile(`(?i)[-–]\s*(\d{1,2}:\d{2}(?:\s*(?:AM|PM))?)`)
)

// ParseTimeToMinutes converts "10:00 PM" or "22:00" to minutes since midnight.
// Returns -1 when the string is not a recognised time.
func ParseTimeToMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}

	if m := time24Re.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		if hours > 23 || minutes > 59 {
			return -1
		}
		return hours*60 + minutes
	}

	if m := time12Re.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		if hours < 1 || hours > 12 || minutes > 59 {
			return -1
		}
		period := strings.ToUpper(m[3])
		if period == "PM" && hours != 12 {
			hours += 12
		}
		if period == "AM" && hours == 12 {
			hours = 0
		}
		return hours*60 + minutes
	}

	return -1
}

// ExtractClosingTime pulls the closing time out of a free-text opening hours
// string like "10:00 AM - 10:00 PM". Returns "" for unparseable input or
// 24-hour venues, which never close.
func ExtractClosingTime(openingHours string) string {
	if openingHours == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(openingHours), "24") {
		return ""
	}
	if m := closingRe.FindStringSubmatch(openingHours); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ClosingSoon determines whether a venue with the given free-text hours is
// within threshold of closing at the given time.
func ClosingSoon(openingHours string, now time.Time, threshold time.Duration) ClosingInfo {
	closingTime := ExtractClosingTime(openingHours)
	if closingTime == "" {
		return ClosingInfo{}
	}

	closeMinutes := ParseTimeToMinutes(closingTime)
	if closeMinutes < 0 {
		return ClosingInfo{ClosingTime: closingTime}
	}

	currentMinutes := now.Hour()*60 + now.Minute()

	until := closeMinutes - currentMinutes
	if until < 0 {
		// closing time is past midnight
		until += 24 * 60
	}

	// More than 12 hours away means the venue likely already closed
	if until > 12*60 {
		return ClosingInfo{ClosingTime: closingTime}
	}

	thresholdMin := int(threshold.Minutes())
	return ClosingInfo{
		IsClosingSoon:     until <= thresholdMin && until > 0,
		MinutesUntilClose: &until,
		ClosingTime:       closingTime,
	}
}

// FormatTimeUntilClose renders minutes-until-close as a short human string
func FormatTimeUntilClose(minutes int) string {
	if minutes <= 0 {
		return "Closing now"
	}
	if minutes < 60 {
		return fmt.Sprintf("Closes in %d min", minutes)
	}
	hours := minutes / 60
	rem := minutes % 60
	if rem == 0 {
		return fmt.Sprintf("Closes in %dh", hours)
	}
	return fmt.Sprintf("Closes in %dh %dm", hours, rem)
}
