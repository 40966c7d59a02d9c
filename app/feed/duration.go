package feed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var isoDurationRe = regexp.MustCompile(`^(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDurationSeconds converts a duration of unknown shape to total seconds.
// Publishers encode iTunes durations as ISO-8601 periods ("PT1H30M15S"),
// clock strings ("1:30:15", "45:10") or bare seconds ("90"). Anything
// unparseable yields 0, never an error.
func ParseDurationSeconds(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	trimmed := strings.TrimPrefix(strings.ToUpper(s), "PT")
	if strings.ContainsAny(trimmed, "HMS") {
		if m := isoDurationRe.FindStringSubmatch(trimmed); m != nil {
			hours, _ := strconv.Atoi(zeroDefault(m[1]))
			minutes, _ := strconv.Atoi(zeroDefault(m[2]))
			seconds, _ := strconv.Atoi(zeroDefault(m[3]))
			return clampSeconds(hours*3600 + minutes*60 + seconds)
		}
		return 0
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 3:
			hours, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
			minutes, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			seconds, _ := strconv.Atoi(strings.TrimSpace(parts[2]))
			return clampSeconds(hours*3600 + minutes*60 + seconds)
		case 2:
			minutes, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
			seconds, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			return clampSeconds(minutes*60 + seconds)
		default:
			seconds, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
			return clampSeconds(seconds)
		}
	}

	seconds, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return clampSeconds(seconds)
}

// FormatDuration renders total seconds as "H:MM:SS", or "M:SS" when there is
// no hours segment.
func FormatDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func zeroDefault(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func clampSeconds(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
