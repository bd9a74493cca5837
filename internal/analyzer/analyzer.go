package analyzer

import (
	"sort"
	"time"

	"gitgraphs/internal/identity"
	"gitgraphs/internal/types"
)

// WeekStartDay is the first day of a bucketed week.
const WeekStartDay = time.Sunday

// WeekStart returns local midnight of the WeekStartDay on or before t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(WeekStartDay) + 7) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// weekSet is a create-or-fetch bucket map that remembers insertion order.
type weekSet struct {
	index   map[string]int
	buckets []types.WeekBucket
}

func newWeekSet() *weekSet {
	return &weekSet{index: make(map[string]int)}
}

func (w *weekSet) add(start time.Time, c types.CommitRecord) {
	key := start.Format(types.DateKeyLayout)
	i, exists := w.index[key]
	if !exists {
		i = len(w.buckets)
		w.index[key] = i
		w.buckets = append(w.buckets, types.WeekBucket{WeekStart: start})
	}
	w.buckets[i].Commits++
	w.buckets[i].Additions += c.Additions
	w.buckets[i].Deletions += c.Deletions
}

func (w *weekSet) sorted() []types.WeekBucket {
	out := make([]types.WeekBucket, len(w.buckets))
	copy(out, w.buckets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

type contributorState struct {
	record types.ContributorRecord
	weeks  *weekSet
}

// Analyzer rolls commits up into weekly and per-contributor totals.
type Analyzer struct {
	loc *time.Location
	now func() time.Time
}

// New returns an Analyzer bucketing weeks in loc (time.Local when nil).
func New(loc *time.Location) *Analyzer {
	if loc == nil {
		loc = time.Local
	}
	return &Analyzer{loc: loc, now: time.Now}
}

// Aggregate is the package-level shorthand for New(nil).Aggregate.
func Aggregate(commits []types.CommitRecord) *types.RepositoryStats {
	return New(nil).Aggregate(commits)
}

// Aggregate builds RepositoryStats in a single pass. The input slice is not modified.
func (a *Analyzer) Aggregate(commits []types.CommitRecord) *types.RepositoryStats {
	if len(commits) == 0 {
		now := a.now().In(a.loc)
		return &types.RepositoryStats{
			Weekly:       []types.WeekBucket{},
			Contributors: []types.ContributorRecord{},
			DateRange:    types.DateRange{Start: now, End: now},
		}
	}

	ordered := make([]types.CommitRecord, len(commits))
	copy(ordered, commits)
	// First-seen display names depend on this order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	stats := &types.RepositoryStats{
		DateRange: types.DateRange{
			Start: ordered[0].Date,
			End:   ordered[len(ordered)-1].Date,
		},
	}

	global := newWeekSet()
	contributors := make(map[string]*contributorState)
	var order []string

	for _, c := range ordered {
		start := WeekStart(c.Date.In(a.loc))
		global.add(start, c)

		key := identity.Normalize(c.Email, c.Author)
		state, exists := contributors[key]
		if !exists {
			state = &contributorState{
				record: types.ContributorRecord{Key: key, Name: c.Author, Email: c.Email},
				weeks:  newWeekSet(),
			}
			contributors[key] = state
			order = append(order, key)
		}
		state.weeks.add(start, c)
		state.record.Commits++
		state.record.Additions += c.Additions
		state.record.Deletions += c.Deletions

		stats.TotalCommits++
		stats.TotalAdditions += c.Additions
		stats.TotalDeletions += c.Deletions
	}

	stats.Weekly = global.sorted()
	stats.Contributors = make([]types.ContributorRecord, 0, len(order))
	for _, key := range order {
		state := contributors[key]
		state.record.Weekly = state.weeks.sorted()
		stats.Contributors = append(stats.Contributors, state.record)
	}
	SortContributors(stats.Contributors, types.SortByCommits)

	return stats
}

// SortContributors orders contributors descending by the chosen total.
// The sort is stable, so ties keep their current relative order.
func SortContributors(contributors []types.ContributorRecord, by types.SortBy) {
	metric := func(c types.ContributorRecord) int {
		switch by {
		case types.SortByAdditions:
			return c.Additions
		case types.SortByDeletions:
			return c.Deletions
		default:
			return c.Commits
		}
	}
	sort.SliceStable(contributors, func(i, j int) bool {
		return metric(contributors[i]) > metric(contributors[j])
	})
}
