// Package periods windows a source's GetSum contract into the standard
// reporting periods (last 7 days, this month, averages, trend). It is a
// generic consumer: any function with the SumFunc shape works.
package periods

import "time"

// SumFunc is the per-source contract: the sum of a statistic over
// [start ?? -inf, end ?? today], both bounds inclusive.
type SumFunc func(start, end *time.Time) (float64, error)

// TimeStats holds every calculated reporting period.
type TimeStats struct {
	Last7Days  float64
	Last31Days float64

	AvgPerDayLast30Days float64
	// TrendVsPrevious30Days is the percentage change against the
	// preceding 30-day window, or nil when that window is empty.
	TrendVsPrevious30Days *float64
	AvgPerDayLast12Months float64
	AvgPerDayThisYear     float64
	AvgPerDayLastYear     float64

	ThisWeek     float64
	ThisMonth    float64
	LastMonth    float64
	Last12Months float64
	Total        float64
}

// dateRanges holds every period boundary, computed once per calculation
// so all periods share the same "today".
type dateRanges struct {
	today          time.Time
	days7Ago       time.Time
	days30Ago      time.Time
	days31Ago      time.Time
	days60Ago      time.Time
	weekStart      time.Time
	monthStart     time.Time
	lastMonthStart time.Time
	lastMonthEnd   time.Time
	months12Ago    time.Time
	yearStart      time.Time
	lastYearStart  time.Time
	lastYearEnd    time.Time
}

func ranges(today time.Time) dateRanges {
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7 // Monday-based week
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	lastMonthEnd := monthStart.AddDate(0, 0, -1)
	lastMonthStart := time.Date(lastMonthEnd.Year(), lastMonthEnd.Month(), 1, 0, 0, 0, 0, today.Location())

	return dateRanges{
		today:          today,
		days7Ago:       today.AddDate(0, 0, -7),
		days30Ago:      today.AddDate(0, 0, -30),
		days31Ago:      today.AddDate(0, 0, -31),
		days60Ago:      today.AddDate(0, 0, -60),
		weekStart:      today.AddDate(0, 0, -(weekday - 1)),
		monthStart:     monthStart,
		lastMonthStart: lastMonthStart,
		lastMonthEnd:   lastMonthEnd,
		months12Ago:    today.AddDate(0, 0, -365),
		yearStart:      time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()),
		lastYearStart:  time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, today.Location()),
		lastYearEnd:    time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, today.Location()),
	}
}

// Calculate evaluates every reporting period against the provided sum
// function.
func Calculate(sum SumFunc) (*TimeStats, error) {
	return calculateAt(sum, time.Now())
}

func calculateAt(sum SumFunc, now time.Time) (*TimeStats, error) {
	r := ranges(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))

	span := func(start, end time.Time) (float64, error) {
		return sum(&start, &end)
	}

	last7, err := span(r.days7Ago, r.today)
	if err != nil {
		return nil, err
	}
	last31, err := span(r.days31Ago, r.today)
	if err != nil {
		return nil, err
	}
	last30, err := span(r.days30Ago, r.today)
	if err != nil {
		return nil, err
	}
	previous30, err := span(r.days60Ago, r.days31Ago)
	if err != nil {
		return nil, err
	}
	last12Months, err := span(r.months12Ago, r.today)
	if err != nil {
		return nil, err
	}
	thisYear, err := span(r.yearStart, r.today)
	if err != nil {
		return nil, err
	}
	lastYear, err := span(r.lastYearStart, r.lastYearEnd)
	if err != nil {
		return nil, err
	}
	thisWeek, err := span(r.weekStart, r.today)
	if err != nil {
		return nil, err
	}
	thisMonth, err := span(r.monthStart, r.today)
	if err != nil {
		return nil, err
	}
	lastMonth, err := span(r.lastMonthStart, r.lastMonthEnd)
	if err != nil {
		return nil, err
	}
	total, err := sum(nil, nil)
	if err != nil {
		return nil, err
	}

	daysThisYear := int(r.today.Sub(r.yearStart).Hours()/24) + 1

	stats := &TimeStats{
		Last7Days:             last7,
		Last31Days:            last31,
		AvgPerDayLast30Days:   last30 / 30,
		TrendVsPrevious30Days: trend(last30, previous30),
		AvgPerDayLast12Months: last12Months / 365,
		AvgPerDayThisYear:     thisYear / float64(daysThisYear),
		AvgPerDayLastYear:     lastYear / 365,
		ThisWeek:              thisWeek,
		ThisMonth:             thisMonth,
		LastMonth:             lastMonth,
		Last12Months:          last12Months,
		Total:                 total,
	}
	return stats, nil
}

// trend returns the percentage change between two period values, or nil
// when the previous period has no data to compare against.
func trend(current, previous float64) *float64 {
	if previous <= 0 {
		return nil
	}
	pct := ((current - previous) / previous) * 100
	return &pct
}
