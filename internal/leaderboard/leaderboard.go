// Package leaderboard turns derived views into terminal output: the chart and
// card report, a contributor table, or JSON/YAML dumps.
package leaderboard

import (
	"fmt"
	"io"
	"slices"

	"gitgraphs/internal/types"
)

// ValidFormat reports whether f is one of Formats.
func ValidFormat(f string) bool {
	return slices.Contains(Formats, f)
}

// Print writes the view selected by p and by to w in the given format.
func Print(w io.Writer, format, repoPath string, views *Views, p types.Period, by types.SortBy, opts Options) error {
	if format == FormatReport || format == "" {
		out, err := NewReport(w, opts).Render(repoPath, views, p, by)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	if !ValidFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}

	view, err := narrow(views.Get(p, by), opts.Author)
	if err != nil {
		return err
	}

	var out string
	switch format {
	case FormatTable:
		out = RenderTable(view, opts.Limit) + "\n"
	case FormatJSON:
		out, err = RenderJSON(view)
	case FormatYAML:
		out, err = RenderYAML(view)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

// narrow keeps only the contributor matching author. Totals and the weekly
// series still describe the whole view.
func narrow(view *types.RepositoryStats, author string) (*types.RepositoryStats, error) {
	if author == "" {
		return view, nil
	}
	idx, suggestions := FindContributor(view.Contributors, author)
	if idx < 0 {
		return nil, &AuthorNotFoundError{Query: author, Suggestions: suggestions}
	}
	single := *view
	single.Contributors = view.Contributors[idx : idx+1]
	return &single, nil
}
