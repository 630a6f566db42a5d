package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/pkg/civiltime"
)

// SessionDuration is the fixed length of every schedule item. If variable
// durations are ever introduced, EffectiveEnd is the only place to change.
const SessionDuration = time.Hour

// Warning flags a malformed schedule item that was classified anyway.
type Warning struct {
	ItemID string
	Reason string
}

// TodaySplit partitions today's occurrences of one enrollment.
type TodaySplit struct {
	Ongoing   []models.ScheduleItem
	Completed []models.ScheduleItem
	Warnings  []Warning
}

// SplitToday partitions the group's schedule items that fall on the business
// date of now into ongoing and completed buckets. An item counts as
// completed once now has passed its effective end, or when its stored flag
// already says so. This is the live per-minute view of "what does today look
// like"; it answers a different question than Classify and the two must not
// be conflated — an enrollment can be ONGOING overall with nothing ongoing
// today.
func SplitToday(group *models.EnrollmentGroup, now time.Time) TodaySplit {
	var split TodaySplit
	for _, item := range group.AllScheduleItems() {
		if item.Date.IsZero() {
			split.Warnings = append(split.Warnings, Warning{ItemID: item.ID, Reason: "missing date"})
			continue
		}
		if !civiltime.SameDate(item.Date, now) {
			continue
		}
		end, warn := EffectiveEnd(item)
		if warn != nil {
			split.Warnings = append(split.Warnings, *warn)
		}
		if item.Completed() || !now.Before(end) {
			split.Completed = append(split.Completed, item)
		} else {
			split.Ongoing = append(split.Ongoing, item)
		}
	}
	return split
}

// EffectiveEnd computes the instant an item finishes: business midnight of
// its date, plus the parsed "HH:MM" start, plus the fixed duration. A start
// time that fails to parse degrades to midnight with a warning instead of
// failing the whole enrollment.
func EffectiveEnd(item models.ScheduleItem) (time.Time, *Warning) {
	var warn *Warning
	hour, minute, ok := ParseClock(item.StartTime)
	if !ok {
		warn = &Warning{ItemID: item.ID, Reason: fmt.Sprintf("unparseable start time %q", item.StartTime)}
		hour, minute = 0, 0
	}
	start := civiltime.DayStart(item.Date).
		Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return start.Add(SessionDuration), warn
}

// ParseClock parses a wall-clock "HH:MM" string.
func ParseClock(raw string) (hour, minute int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
