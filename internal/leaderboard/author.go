package leaderboard

import (
	"sort"
	"strings"

	"github.com/sajari/fuzzy"

	"gitgraphs/internal/types"
)

const maxSuggestions = 5

// FindContributor returns the index of the contributor matching query by name,
// canonical key or email (case-insensitive), or a unique substring of the name.
// When nothing matches it returns -1 and up to five "did you mean" names.
func FindContributor(contributors []types.ContributorRecord, query string) (int, []string) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1, nil
	}

	for i, c := range contributors {
		if strings.ToLower(c.Name) == q || c.Key == q || strings.ToLower(c.Email) == q {
			return i, nil
		}
	}

	var partial []int
	for i, c := range contributors {
		if strings.Contains(strings.ToLower(c.Name), q) {
			partial = append(partial, i)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}

	return -1, suggest(contributors, q, partial)
}

// suggest ranks substring hits first, then fuzzy matches on names, name tokens and email local parts.
func suggest(contributors []types.ContributorRecord, q string, partial []int) []string {
	owners := make(map[string][]int)
	words := make([]string, 0, len(contributors)*3)
	addWord := func(w string, i int) {
		if w == "" {
			return
		}
		if _, seen := owners[w]; !seen {
			words = append(words, w)
		}
		owners[w] = append(owners[w], i)
	}
	for i, c := range contributors {
		name := strings.ToLower(c.Name)
		addWord(name, i)
		for _, tok := range strings.Fields(name) {
			addWord(tok, i)
		}
		if at := strings.IndexByte(c.Email, '@'); at > 0 {
			addWord(strings.ToLower(c.Email[:at]), i)
		}
	}

	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)
	model.Train(words)

	var picked []int
	seen := make(map[int]bool)
	pick := func(i int) {
		if !seen[i] {
			seen[i] = true
			picked = append(picked, i)
		}
	}
	for _, i := range partial {
		pick(i)
	}
	matches := model.Suggestions(q, true)
	sort.Strings(matches)
	for _, w := range matches {
		for _, i := range owners[w] {
			pick(i)
		}
	}

	out := make([]string, 0, min(len(picked), maxSuggestions))
	for _, i := range picked {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, contributors[i].Name)
	}
	return out
}
