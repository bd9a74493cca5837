// Package period derives time-windowed and gap-free views of aggregated stats.
// Nothing here mutates its input.
package period

import (
	"time"

	"gitgraphs/internal/analyzer"
	"gitgraphs/internal/types"
)

// Days is the window length of each bounded period.
var Days = map[types.Period]int{
	types.PeriodWeek:  7,
	types.PeriodMonth: 30,
	types.PeriodYear:  365,
}

// Cutoff returns the earliest week start kept for p, and false for PeriodAll
// or unknown periods.
func Cutoff(p types.Period, now time.Time) (time.Time, bool) {
	days, ok := Days[p]
	if !ok {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -days), true
}

// Filter keeps the buckets whose week start is at or after the period cutoff.
// PeriodAll returns buckets unchanged.
func Filter(buckets []types.WeekBucket, p types.Period, now time.Time) []types.WeekBucket {
	cutoff, bounded := Cutoff(p, now)
	if !bounded {
		return buckets
	}
	out := make([]types.WeekBucket, 0, len(buckets))
	for _, b := range buckets {
		if !b.WeekStart.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out
}

// FilterStats applies Filter to the global series and to every contributor.
// Contributors left without buckets are dropped and all totals are recomputed
// from the surviving buckets.
func FilterStats(stats *types.RepositoryStats, p types.Period, now time.Time) *types.RepositoryStats {
	cutoff, bounded := Cutoff(p, now)
	if !bounded || stats == nil {
		return stats
	}

	view := &types.RepositoryStats{
		Weekly:       Filter(stats.Weekly, p, now),
		Contributors: make([]types.ContributorRecord, 0, len(stats.Contributors)),
		DateRange:    stats.DateRange,
	}
	if view.DateRange.Start.Before(cutoff) {
		view.DateRange.Start = cutoff
	}
	view.TotalCommits, view.TotalAdditions, view.TotalDeletions = Sum(view.Weekly)

	for _, c := range stats.Contributors {
		weekly := Filter(c.Weekly, p, now)
		if len(weekly) == 0 {
			continue
		}
		fc := types.ContributorRecord{
			Key:    c.Key,
			Name:   c.Name,
			Email:  c.Email,
			Weekly: weekly,
		}
		fc.Commits, fc.Additions, fc.Deletions = Sum(weekly)
		view.Contributors = append(view.Contributors, fc)
	}

	return view
}

// Sum totals a bucket series.
func Sum(buckets []types.WeekBucket) (commits, additions, deletions int) {
	for _, b := range buckets {
		commits += b.Commits
		additions += b.Additions
		deletions += b.Deletions
	}
	return commits, additions, deletions
}

// PadToNow returns one bucket per week from the first bucket's week through the
// week containing now, inserting zero buckets for weeks without commits.
// Buckets dated after now's week are kept, extending the walk to the last one.
func PadToNow(buckets []types.WeekBucket, now time.Time) []types.WeekBucket {
	if len(buckets) == 0 {
		return []types.WeekBucket{}
	}

	loc := buckets[0].WeekStart.Location()
	existing := make(map[string]types.WeekBucket, len(buckets))
	for _, b := range buckets {
		existing[b.Key()] = b
	}

	last := analyzer.WeekStart(now.In(loc))
	if tail := buckets[len(buckets)-1].WeekStart; tail.After(last) {
		last = tail
	}

	var out []types.WeekBucket
	for week := buckets[0].WeekStart; !week.After(last); week = nextWeek(week) {
		if b, ok := existing[week.Format(types.DateKeyLayout)]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, types.WeekBucket{WeekStart: week})
	}
	return out
}

// nextWeek steps by calendar days so DST changes keep weeks at midnight.
func nextWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+7, 0, 0, 0, 0, t.Location())
}
