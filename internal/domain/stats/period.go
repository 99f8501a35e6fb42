package stats

import (
	"fmt"
	"time"
)

// Known period tokens. Anything else resolves like PeriodAll so a report
// request never fails on its period selector.
const (
	Period7Days  = "7d"
	Period30Days = "30d"
	Period90Days = "90d"
	Period1Year  = "1y"
	PeriodAll    = "all"
)

// allTimeStart is the sentinel lower bound of the "all time" window.
// It predates any item the application can hold.
var allTimeStart = time.Unix(0, 0).UTC()

// PeriodWindow is a half-open [Start, now) interval plus, for relative
// periods, the immediately preceding window of equal length used for
// trend comparison. For "all time" the comparison bounds stay zero and
// HasComparison reports false; callers must check it instead of doing
// arithmetic on the zero times.
type PeriodWindow struct {
	Token     string
	Start     time.Time
	PrevStart time.Time
	PrevEnd   time.Time
}

// HasComparison reports whether a previous comparable window exists
func (w PeriodWindow) HasComparison() bool {
	return !w.PrevStart.IsZero()
}

// ResolvePeriod maps a period token to its concrete window relative to now.
// Day-count tokens use fixed durations; "1y" follows calendar years.
func ResolvePeriod(token string, now time.Time) PeriodWindow {
	switch token {
	case Period7Days:
		return dayWindow(token, now, 7)
	case Period30Days:
		return dayWindow(token, now, 30)
	case Period90Days:
		return dayWindow(token, now, 90)
	case Period1Year:
		start := now.AddDate(-1, 0, 0)
		return PeriodWindow{
			Token:     token,
			Start:     start,
			PrevStart: now.AddDate(-2, 0, 0),
			PrevEnd:   start,
		}
	default:
		return PeriodWindow{Token: PeriodAll, Start: allTimeStart}
	}
}

func dayWindow(token string, now time.Time, days int) PeriodWindow {
	start := now.AddDate(0, 0, -days)
	return PeriodWindow{
		Token:     token,
		Start:     start,
		PrevStart: now.AddDate(0, 0, -2*days),
		PrevEnd:   start,
	}
}

// Grouping granularities for the evolution time series
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// ParseGroupBy validates a group-by token. Unlike period tokens there is
// no safe default granularity, so a bad token is rejected up front.
func ParseGroupBy(token string) (string, error) {
	switch token {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return token, nil
	case "":
		return GroupByDay, nil
	default:
		return "", fmt.Errorf("unknown group-by token %q", token)
	}
}

// BucketKey formats a sale timestamp as the chronologically sortable
// string key of its time bucket: YYYY-MM-DD, YYYY-Www or YYYY-MM.
func BucketKey(groupBy string, t time.Time) string {
	switch groupBy {
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
