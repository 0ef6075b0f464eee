// AngelaMos | 2026
// bucket.go

package reminder

import (
	"time"
)

type Bucket string

const (
	BucketDueToday    Bucket = "today"
	BucketDueThisWeek Bucket = "week"
	BucketOverdue     Bucket = "overdue"
	BucketDone        Bucket = "done"
	BucketUpcoming    Bucket = "upcoming"
)

func ValidBucketFilter(s string) bool {
	switch Bucket(s) {
	case BucketDueToday, BucketDueThisWeek, BucketOverdue, BucketDone:
		return true
	}
	return s == "all" || s == ""
}

// Classify places a reminder in exactly one bucket relative to now.
// Overdue is day-granular: a pending reminder from earlier today is
// still DueToday, only yesterday and before count as overdue. The
// this-week bucket is instant-granular and excludes today.
func Classify(now time.Time, r *Reminder) Bucket {
	if r.IsDone() {
		return BucketDone
	}

	remindAt := r.RemindAt.In(now.Location())
	dayStart := startOfDay(now)

	if !remindAt.Before(dayStart) && remindAt.Before(dayStart.AddDate(0, 0, 1)) {
		return BucketDueToday
	}

	if remindAt.Before(dayStart) {
		return BucketOverdue
	}

	if remindAt.After(now) && inSameWeek(now, remindAt) {
		return BucketDueThisWeek
	}

	return BucketUpcoming
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the preceding (or same) Sunday at midnight.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func inSameWeek(now, t time.Time) bool {
	weekStart := startOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)
	return !t.Before(weekStart) && t.Before(weekEnd)
}

// Counts aggregates a reminder list into per-bucket totals.
func Counts(now time.Time, reminders []Reminder) map[Bucket]int {
	counts := map[Bucket]int{
		BucketDueToday:    0,
		BucketDueThisWeek: 0,
		BucketOverdue:     0,
		BucketDone:        0,
		BucketUpcoming:    0,
	}
	for i := range reminders {
		counts[Classify(now, &reminders[i])]++
	}
	return counts
}

// Filter keeps the reminders falling in the given bucket.
func Filter(now time.Time, reminders []Reminder, bucket Bucket) []Reminder {
	out := []Reminder{}
	for i := range reminders {
		if Classify(now, &reminders[i]) == bucket {
			out = append(out, reminders[i])
		}
	}
	return out
}
