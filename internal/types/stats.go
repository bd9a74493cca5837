package types

import "time"

// CommitRecord is one non-merge commit as parsed from the log.
type CommitRecord struct {
	Hash      string
	Author    string
	Email     string
	Date      time.Time
	Additions int
	Deletions int
}

// WeekBucket accumulates the commits of one calendar week.
type WeekBucket struct {
	WeekStart time.Time `json:"week_start" yaml:"week_start"`
	Commits   int       `json:"commits" yaml:"commits"`
	Additions int       `json:"additions" yaml:"additions"`
	Deletions int       `json:"deletions" yaml:"deletions"`
}

// Key is the ISO calendar date of the week start.
func (w WeekBucket) Key() string {
	return w.WeekStart.Format(DateKeyLayout)
}

// DateKeyLayout formats week keys.
const DateKeyLayout = "2006-01-02"

// ContributorRecord accumulates one normalized identity; Weekly is ascending by week.
type ContributorRecord struct {
	Key       string       `json:"key" yaml:"key"`
	Name      string       `json:"name" yaml:"name"`
	Email     string       `json:"email" yaml:"email"`
	Commits   int          `json:"commits" yaml:"commits"`
	Additions int          `json:"additions" yaml:"additions"`
	Deletions int          `json:"deletions" yaml:"deletions"`
	Weekly    []WeekBucket `json:"weekly" yaml:"weekly"`
}

// DateRange spans the oldest and newest commit dates.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// RepositoryStats is the aggregate of a whole history, or a derived view of it.
type RepositoryStats struct {
	TotalCommits   int                 `json:"total_commits" yaml:"total_commits"`
	TotalAdditions int                 `json:"total_additions" yaml:"total_additions"`
	TotalDeletions int                 `json:"total_deletions" yaml:"total_deletions"`
	Weekly         []WeekBucket        `json:"weekly" yaml:"weekly"`
	Contributors   []ContributorRecord `json:"contributors" yaml:"contributors"`
	DateRange      DateRange           `json:"date_range" yaml:"date_range"`
}

// Period selects the time window of a derived view.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists every period in display order.
var Periods = []Period{PeriodAll, PeriodYear, PeriodMonth, PeriodWeek}

func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "Last week"
	case PeriodMonth:
		return "Last month"
	case PeriodYear:
		return "Last year"
	default:
		return "All time"
	}
}

// SortBy selects the contributor ordering of a derived view.
type SortBy string

const (
	SortByCommits   SortBy = "commits"
	SortByAdditions SortBy = "additions"
	SortByDeletions SortBy = "deletions"
)

var SortKeys = []SortBy{SortByCommits, SortByAdditions, SortByDeletions}

// ParsePeriod returns false for unknown values.
func ParsePeriod(s string) (Period, bool) {
	for _, p := range Periods {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func ParseSortBy(s string) (SortBy, bool) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
