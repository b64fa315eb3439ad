package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	hoursPart   = regexp.MustCompile(`(\d+)H`)
	minutesPart = regexp.MustCompile(`(\d+)M`)
	secondsPart = regexp.MustCompile(`(\d+)S`)
)

// DurationSeconds converts an ISO-8601 video duration such as PT1H2M3S to
// seconds. Missing components count as zero; unparseable input yields 0.
func DurationSeconds(iso string) int {
	total := 0
	if m := hoursPart.FindStringSubmatch(iso); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n * 3600
	}
	if m := minutesPart.FindStringSubmatch(iso); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n * 60
	}
	if m := secondsPart.FindStringSubmatch(iso); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
	}
	return total
}

// FormatDuration renders an ISO-8601 duration as "<minutes>m <seconds>s".
// Hours fold into minutes.
func FormatDuration(iso string) string {
	s := DurationSeconds(iso)
	return fmt.Sprintf("%dm %ds", s/60, s%60)
}
