package git

import (
	"strconv"
	"strings"
	"time"

	"gitgraphs/internal/types"
)

const (
	headerFields = 4
	hashLength   = 40
)

// pending is the record being accumulated between two header lines.
type pending struct {
	record types.CommitRecord
	valid  bool // false when the header timestamp did not parse
}

// logParser is a two-state machine: either no record is pending, or one is.
type logParser struct {
	current *pending
	commits []types.CommitRecord
}

// ParseCommitLog turns `git log --format=%H|%an|%ae|%aI --numstat` output into
// commit records in input order. Unrecognized lines are skipped; it never fails.
func ParseCommitLog(text string) []types.CommitRecord {
	p := &logParser{commits: []types.CommitRecord{}}
	for _, line := range strings.Split(text, "\n") {
		p.consume(strings.TrimSuffix(line, "\r"))
	}
	p.flush()
	return p.commits
}

func (p *logParser) consume(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	if fields, ok := splitHeader(line); ok {
		p.flush()
		p.current = newPending(fields)
		return
	}

	// Stat lines before the first header have nowhere to go.
	if p.current == nil || !strings.Contains(line, "\t") {
		return
	}

	parts := strings.Split(line, "\t")
	p.current.record.Additions += parseStat(parts[0])
	p.current.record.Deletions += parseStat(parts[1])
}

func (p *logParser) flush() {
	if p.current != nil && p.current.valid {
		p.commits = append(p.commits, p.current.record)
	}
	p.current = nil
}

func newPending(fields []string) *pending {
	date, err := parseTimestamp(fields[3])
	return &pending{
		record: types.CommitRecord{
			Hash:   fields[0],
			Author: fields[1],
			Email:  fields[2],
			Date:   date,
		},
		valid: err == nil,
	}
}

// splitHeader reports whether line is a commit header and returns its fields.
func splitHeader(line string) ([]string, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != headerFields || !isCommitHash(fields[0]) {
		return nil, false
	}
	return fields, true
}

func isCommitHash(s string) bool {
	if len(s) != hashLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// parseStat reads a numstat count; "-" (binary files) and garbage count as 0.
func parseStat(field string) int {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	// %ai style "2006-01-02 15:04:05 -0700" shows up when users override the format.
	return time.Parse("2006-01-02 15:04:05 -0700", s)
}
