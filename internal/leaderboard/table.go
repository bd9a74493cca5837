package leaderboard

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"gitgraphs/internal/types"
)

// Output formats accepted by --format.
const (
	FormatReport = "report"
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

var Formats = []string{FormatReport, FormatTable, FormatJSON, FormatYAML}

// RenderTable lays out the contributors of view as a plain table.
func RenderTable(view *types.RepositoryStats, limit int) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Contributor", "Email", "Commits", "Additions", "Deletions", "Weeks", "First", "Last"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	contributors := limited(view.Contributors, limit)
	for i, c := range contributors {
		first, last := "", ""
		if n := len(c.Weekly); n > 0 {
			first = c.Weekly[0].Key()
			last = c.Weekly[n-1].Key()
		}
		tbl.AppendRow(table.Row{
			i + 1,
			c.Name,
			c.Email,
			humanize.Comma(int64(c.Commits)),
			humanize.Comma(int64(c.Additions)),
			humanize.Comma(int64(c.Deletions)),
			len(c.Weekly),
			first,
			last,
		})
	}

	tbl.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d contributors", len(view.Contributors)),
		"",
		humanize.Comma(int64(view.TotalCommits)),
		humanize.Comma(int64(view.TotalAdditions)),
		humanize.Comma(int64(view.TotalDeletions)),
		len(view.Weekly),
		"",
		"",
	})

	return tbl.Render()
}

func RenderJSON(view *types.RepositoryStats) (string, error) {
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(data) + "\n", nil
}

func RenderYAML(view *types.RepositoryStats) (string, error) {
	data, err := yaml.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return string(data), nil
}

func limited(contributors []types.ContributorRecord, limit int) []types.ContributorRecord {
	if limit > 0 && limit < len(contributors) {
		return contributors[:limit]
	}
	return contributors
}
