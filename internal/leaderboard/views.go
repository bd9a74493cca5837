package leaderboard

import (
	"time"

	"github.com/patrickmn/go-cache"

	"gitgraphs/internal/analyzer"
	"gitgraphs/internal/period"
	"gitgraphs/internal/types"
)

// Views hands out derived views of one base snapshot, memoized per period and sort key.
// The base is never mutated.
type Views struct {
	base  *types.RepositoryStats
	now   time.Time
	cache *cache.Cache
}

// NewViews pins now so every view of one run uses the same cutoffs.
func NewViews(base *types.RepositoryStats, now time.Time) *Views {
	return &Views{
		base:  base,
		now:   now,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (v *Views) Base() *types.RepositoryStats {
	return v.base
}

func (v *Views) Now() time.Time {
	return v.now
}

// Get returns the view filtered to p with contributors ordered by by.
func (v *Views) Get(p types.Period, by types.SortBy) *types.RepositoryStats {
	key := string(p) + "/" + string(by)
	if cached, found := v.cache.Get(key); found {
		return cached.(*types.RepositoryStats)
	}

	filtered := period.FilterStats(v.base, p, v.now)
	view := *filtered
	view.Contributors = append([]types.ContributorRecord(nil), filtered.Contributors...)
	if view.Contributors == nil {
		view.Contributors = []types.ContributorRecord{}
	}
	analyzer.SortContributors(view.Contributors, by)

	v.cache.Set(key, &view, cache.NoExpiration)
	return &view
}

// Series is the weekly series charted for p. Only the all-time series is
// padded with zero weeks through now; bounded periods chart their active weeks.
func (v *Views) Series(p types.Period) []types.WeekBucket {
	weekly := v.Get(p, types.SortByCommits).Weekly
	if p != types.PeriodAll {
		return weekly
	}
	return period.PadToNow(weekly, v.now)
}
