package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitgraphs/internal/analyzer"
	"gitgraphs/internal/types"
)

func sunday(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bucket(start time.Time, commits, adds, dels int) types.WeekBucket {
	return types.WeekBucket{WeekStart: start, Commits: commits, Additions: adds, Deletions: dels}
}

func TestFilter(t *testing.T) {
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	buckets := []types.WeekBucket{
		bucket(sunday(2023, time.January, 1), 1, 1, 1),
		bucket(sunday(2024, time.February, 4), 2, 2, 2),
		bucket(sunday(2024, time.March, 3), 3, 3, 3),
		bucket(sunday(2024, time.March, 17), 4, 4, 4),
	}

	tests := []struct {
		period types.Period
		want   int
	}{
		{types.PeriodAll, 4},
		{types.PeriodYear, 3},
		{types.PeriodMonth, 2},
		{types.PeriodWeek, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Len(t, Filter(buckets, tt.period, now), tt.want)
		})
	}
	assert.Len(t, buckets, 4, "input is untouched")
}

func TestFilter_CutoffIsInclusive(t *testing.T) {
	now := time.Date(2024, time.March, 24, 0, 0, 0, 0, time.UTC)
	buckets := []types.WeekBucket{bucket(sunday(2024, time.March, 17), 1, 0, 0)}

	assert.Len(t, Filter(buckets, types.PeriodWeek, now), 1)
}

func TestFilterStats(t *testing.T) {
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	old := bucket(sunday(2023, time.June, 4), 5, 50, 5)
	recent := bucket(sunday(2024, time.March, 10), 2, 20, 2)
	base := &types.RepositoryStats{
		TotalCommits:   7,
		TotalAdditions: 70,
		TotalDeletions: 7,
		Weekly:         []types.WeekBucket{old, recent},
		Contributors: []types.ContributorRecord{
			{Key: "gone@x.com", Name: "Gone", Commits: 4, Additions: 40, Deletions: 4,
				Weekly: []types.WeekBucket{bucket(old.WeekStart, 4, 40, 4)}},
			{Key: "both@x.com", Name: "Both", Commits: 3, Additions: 30, Deletions: 3,
				Weekly: []types.WeekBucket{bucket(old.WeekStart, 1, 10, 1), recent}},
		},
		DateRange: types.DateRange{Start: old.WeekStart, End: now},
	}

	view := FilterStats(base, types.PeriodMonth, now)

	assert.Equal(t, 2, view.TotalCommits)
	assert.Equal(t, 20, view.TotalAdditions)
	assert.Equal(t, 2, view.TotalDeletions)
	require.Len(t, view.Contributors, 1)
	c := view.Contributors[0]
	assert.Equal(t, "Both", c.Name)
	assert.Equal(t, 2, c.Commits, "totals come from surviving buckets")
	assert.Equal(t, 20, c.Additions)
	assert.Equal(t, now.AddDate(0, 0, -30), view.DateRange.Start)

	assert.Equal(t, 7, base.TotalCommits, "base stats are not mutated")
	assert.Len(t, base.Contributors, 2)
	assert.Len(t, base.Contributors[1].Weekly, 2)
}

func TestFilterStats_AllReturnsInput(t *testing.T) {
	base := &types.RepositoryStats{TotalCommits: 3}

	assert.Same(t, base, FilterStats(base, types.PeriodAll, time.Now()))
}

func TestFilterStats_Empty(t *testing.T) {
	base := &types.RepositoryStats{Weekly: []types.WeekBucket{}, Contributors: []types.ContributorRecord{}}

	view := FilterStats(base, types.PeriodWeek, time.Now())

	assert.Equal(t, 0, view.TotalCommits)
	assert.Empty(t, view.Weekly)
	assert.Empty(t, view.Contributors)
}

func TestPadToNow_FillsGaps(t *testing.T) {
	buckets := []types.WeekBucket{
		bucket(sunday(2024, time.January, 7), 3, 50, 10),
		bucket(sunday(2024, time.January, 28), 1, 5, 5),
	}
	now := time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC)

	padded := PadToNow(buckets, now)

	want := []types.WeekBucket{
		bucket(sunday(2024, time.January, 7), 3, 50, 10),
		bucket(sunday(2024, time.January, 14), 0, 0, 0),
		bucket(sunday(2024, time.January, 21), 0, 0, 0),
		bucket(sunday(2024, time.January, 28), 1, 5, 5),
		bucket(sunday(2024, time.February, 4), 0, 0, 0),
		bucket(sunday(2024, time.February, 11), 0, 0, 0),
	}
	assert.Equal(t, want, padded)
	assert.Len(t, buckets, 2, "input is untouched")
}

func TestPadToNow_ContiguousWeeks(t *testing.T) {
	buckets := []types.WeekBucket{
		bucket(sunday(2022, time.March, 6), 1, 0, 0),
		bucket(sunday(2022, time.October, 30), 2, 0, 0),
		bucket(sunday(2023, time.July, 2), 3, 0, 0),
	}
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	padded := PadToNow(buckets, now)

	first := buckets[0].WeekStart
	last := analyzer.WeekStart(now)
	weeks := int(last.Sub(first).Hours()/24/7) + 1
	require.Len(t, padded, weeks)
	assert.Equal(t, first, padded[0].WeekStart)
	assert.Equal(t, last, padded[len(padded)-1].WeekStart)

	total := 0
	for i, b := range padded {
		if i > 0 {
			assert.Equal(t, padded[i-1].WeekStart.AddDate(0, 0, 7), b.WeekStart)
		}
		total += b.Commits
	}
	assert.Equal(t, 6, total)
}

func TestPadToNow_KeepsBucketsAfterNow(t *testing.T) {
	buckets := []types.WeekBucket{
		bucket(sunday(2024, time.January, 7), 1, 0, 0),
		bucket(sunday(2024, time.January, 21), 1, 0, 0),
	}
	now := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

	padded := PadToNow(buckets, now)

	require.Len(t, padded, 3)
	assert.Equal(t, 1, padded[2].Commits)
}

func TestPadToNow_Empty(t *testing.T) {
	assert.Empty(t, PadToNow(nil, time.Now()))
}

func TestSum(t *testing.T) {
	c, a, d := Sum([]types.WeekBucket{bucket(sunday(2024, 1, 7), 1, 2, 3), bucket(sunday(2024, 1, 14), 4, 5, 6)})
	assert.Equal(t, []int{5, 7, 9}, []int{c, a, d})
}
