package analyzer

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitgraphs/internal/types"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func commit(email, name string, at time.Time, adds, dels int) types.CommitRecord {
	return types.CommitRecord{
		Hash:      fmt.Sprintf("%040x", at.UnixNano()),
		Author:    name,
		Email:     email,
		Date:      at,
		Additions: adds,
		Deletions: dels,
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{day(2024, time.January, 7, 0), day(2024, time.January, 7, 0)},   // Sunday
		{day(2024, time.January, 13, 23), day(2024, time.January, 7, 0)}, // Saturday night
		{day(2024, time.January, 8, 12), day(2024, time.January, 7, 0)},
		{day(2024, time.March, 1, 9), day(2024, time.February, 25, 0)}, // crosses a month
		{day(2025, time.January, 2, 9), day(2024, time.December, 29, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeekStart(tt.in), "WeekStart(%s)", tt.in)
	}
}

func TestWeekStart_KeepsLocalMidnightAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts on Sunday 2024-03-10.
	got := WeekStart(time.Date(2024, time.March, 12, 10, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, loc), got)
	assert.Equal(t, 0, got.Hour())
}

func TestAggregate_SingleAuthorTwoWeeks(t *testing.T) {
	commits := []types.CommitRecord{
		commit("a@x.com", "A", day(2024, time.January, 8, 10), 20, 5),
		commit("a@x.com", "A", day(2024, time.January, 10, 10), 20, 5),
		commit("a@x.com", "A", day(2024, time.January, 13, 10), 10, 0),
		commit("a@x.com", "A", day(2024, time.January, 15, 10), 5, 5),
	}

	stats := New(time.UTC).Aggregate(commits)

	want := []types.WeekBucket{
		{WeekStart: day(2024, time.January, 7, 0), Commits: 3, Additions: 50, Deletions: 10},
		{WeekStart: day(2024, time.January, 14, 0), Commits: 1, Additions: 5, Deletions: 5},
	}
	assert.Equal(t, want, stats.Weekly)
	assert.Equal(t, 4, stats.TotalCommits)
	assert.Equal(t, 55, stats.TotalAdditions)
	assert.Equal(t, 15, stats.TotalDeletions)

	require.Len(t, stats.Contributors, 1)
	c := stats.Contributors[0]
	assert.Equal(t, "a@x.com", c.Key)
	assert.Equal(t, 4, c.Commits)
	assert.Equal(t, 55, c.Additions)
	assert.Equal(t, 15, c.Deletions)
	assert.Equal(t, want, c.Weekly)

	assert.Equal(t, day(2024, time.January, 8, 10), stats.DateRange.Start)
	assert.Equal(t, day(2024, time.January, 15, 10), stats.DateRange.End)
}

func TestAggregate_NoreplyCollapsesWithFirstSeenName(t *testing.T) {
	commits := []types.CommitRecord{
		commit("1+d@users.noreply.example.com", "D", day(2024, time.May, 2, 10), 1, 0),
		commit("1+dev@users.noreply.example.com", "Dev", day(2024, time.May, 1, 10), 1, 0),
	}

	stats := New(time.UTC).Aggregate(commits)

	require.Len(t, stats.Contributors, 1)
	c := stats.Contributors[0]
	assert.Equal(t, "example:1", c.Key)
	assert.Equal(t, "Dev", c.Name, "the chronologically first commit names the contributor")
	assert.Equal(t, "1+dev@users.noreply.example.com", c.Email)
	assert.Equal(t, 2, c.Commits)
}

func TestAggregate_Empty(t *testing.T) {
	a := New(time.UTC)
	fixed := day(2026, time.October, 19, 12)
	a.now = func() time.Time { return fixed }

	stats := a.Aggregate(nil)

	assert.Equal(t, 0, stats.TotalCommits)
	assert.Equal(t, 0, stats.TotalAdditions)
	assert.Equal(t, 0, stats.TotalDeletions)
	assert.NotNil(t, stats.Weekly)
	assert.Empty(t, stats.Weekly)
	assert.NotNil(t, stats.Contributors)
	assert.Empty(t, stats.Contributors)
	assert.Equal(t, fixed, stats.DateRange.Start)
	assert.Equal(t, fixed, stats.DateRange.End)
}

func TestAggregate_OrdersContributorsByCommitsThenFirstSeen(t *testing.T) {
	commits := []types.CommitRecord{
		commit("late@x.com", "Late", day(2024, time.June, 3, 10), 1, 1),
		commit("early@x.com", "Early", day(2024, time.June, 1, 10), 1, 1),
		commit("top@x.com", "Top", day(2024, time.June, 4, 10), 1, 1),
		commit("top@x.com", "Top", day(2024, time.June, 5, 10), 1, 1),
	}

	stats := New(time.UTC).Aggregate(commits)

	var names []string
	for _, c := range stats.Contributors {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Top", "Early", "Late"}, names)
}

func TestAggregate_StableForEqualTimestamps(t *testing.T) {
	at := day(2024, time.June, 3, 10)
	commits := []types.CommitRecord{
		commit("b@x.com", "B", at, 0, 0),
		commit("a@x.com", "A", at, 0, 0),
	}

	stats := New(time.UTC).Aggregate(commits)

	require.Len(t, stats.Contributors, 2)
	assert.Equal(t, "B", stats.Contributors[0].Name)
	assert.Equal(t, "A", stats.Contributors[1].Name)
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	commits := []types.CommitRecord{
		commit("a@x.com", "A", day(2024, time.June, 5, 10), 0, 0),
		commit("a@x.com", "A", day(2024, time.June, 1, 10), 0, 0),
	}
	first := commits[0]

	New(time.UTC).Aggregate(commits)

	assert.Equal(t, first, commits[0])
}

func TestAggregate_BucketsInConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	// Sunday 02:00 UTC is still Saturday evening at UTC-8.
	c := commit("a@x.com", "A", day(2024, time.January, 14, 2), 1, 0)

	stats := New(loc).Aggregate([]types.CommitRecord{c})

	require.Len(t, stats.Weekly, 1)
	assert.Equal(t, "2024-01-07", stats.Weekly[0].Key())
}

func TestAggregate_SumAndOrderingInvariants(t *testing.T) {
	emails := []string{
		"a@x.com", "A@X.com ", "b@y.org",
		"42+one@users.noreply.github.com", "42+two@users.noreply.github.com",
		"", "c@z.net",
	}
	names := []string{"Ann", "Bob", "Cy", "Dee"}
	base := day(2022, time.January, 1, 0)
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 50; iter++ {
		n := rng.Intn(200)
		commits := make([]types.CommitRecord, n)
		for i := range commits {
			at := base.Add(time.Duration(rng.Int63n(int64(2 * 365 * 24 * time.Hour))))
			commits[i] = commit(emails[rng.Intn(len(emails))], names[rng.Intn(len(names))], at, rng.Intn(500), rng.Intn(500))
		}

		stats := New(time.UTC).Aggregate(commits)

		assert.Equal(t, n, stats.TotalCommits)
		assertAscending(t, stats.Weekly)

		var commitsSum, addSum, delSum int
		for _, c := range stats.Contributors {
			commitsSum += c.Commits
			addSum += c.Additions
			delSum += c.Deletions

			assertAscending(t, c.Weekly)
			var cc, ca, cd int
			for _, w := range c.Weekly {
				cc += w.Commits
				ca += w.Additions
				cd += w.Deletions
			}
			assert.Equal(t, c.Commits, cc, "contributor %s commits", c.Key)
			assert.Equal(t, c.Additions, ca, "contributor %s additions", c.Key)
			assert.Equal(t, c.Deletions, cd, "contributor %s deletions", c.Key)
		}
		assert.Equal(t, stats.TotalCommits, commitsSum)
		assert.Equal(t, stats.TotalAdditions, addSum)
		assert.Equal(t, stats.TotalDeletions, delSum)

		for i := 1; i < len(stats.Contributors); i++ {
			assert.GreaterOrEqual(t, stats.Contributors[i-1].Commits, stats.Contributors[i].Commits)
		}
	}
}

func assertAscending(t *testing.T, buckets []types.WeekBucket) {
	t.Helper()
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i-1].WeekStart.Before(buckets[i].WeekStart),
			"buckets %s and %s out of order", buckets[i-1].Key(), buckets[i].Key())
	}
}

func TestSortContributors(t *testing.T) {
	contributors := []types.ContributorRecord{
		{Name: "A", Commits: 5, Additions: 10, Deletions: 300},
		{Name: "B", Commits: 3, Additions: 900, Deletions: 1},
		{Name: "C", Commits: 9, Additions: 10, Deletions: 2},
	}

	SortContributors(contributors, types.SortByAdditions)
	assert.Equal(t, "B", contributors[0].Name)
	assert.Equal(t, "A", contributors[1].Name, "ties keep their relative order")

	SortContributors(contributors, types.SortByDeletions)
	assert.Equal(t, "A", contributors[0].Name)

	SortContributors(contributors, types.SortByCommits)
	assert.Equal(t, "C", contributors[0].Name)
}
