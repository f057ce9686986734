package mock

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var daysAgoPattern = regexp.MustCompile(`\{\{days_ago:(\d+)\}\}`)

// Time renders calendar dates relative to the moment it was created, so
// feature files can use dates that are never in the future.
type Time struct {
	today time.Time
}

// NewTime anchors a Time to the current UTC date.
func NewTime() *Time {
	now := time.Now().UTC()
	return &Time{today: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the anchor date.
func (t *Time) Today() string {
	return t.today.Format(dateLayout)
}

// DaysAgo returns the date n days before the anchor.
func (t *Time) DaysAgo(n int) string {
	return t.today.AddDate(0, 0, -n).Format(dateLayout)
}

// Tomorrow returns the day after the anchor.
func (t *Time) Tomorrow() string {
	return t.today.AddDate(0, 0, 1).Format(dateLayout)
}

// Expand replaces {{today}}, {{tomorrow}} and {{days_ago:N}} in content.
func (t *Time) Expand(content string) string {
	content = daysAgoPattern.ReplaceAllStringFunc(content, func(match string) string {
		n, err := strconv.Atoi(daysAgoPattern.FindStringSubmatch(match)[1])
		if err != nil {
			return match
		}
		return t.DaysAgo(n)
	})
	content = strings.ReplaceAll(content, "{{today}}", t.Today())
	return strings.ReplaceAll(content, "{{tomorrow}}", t.Tomorrow())
}
