package leaderboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"gitgraphs/internal/chart"
	"gitgraphs/internal/types"
)

// Palette.
const (
	colorAccent    = "#58A6FF"
	colorPrimary   = "#E6EDF3"
	colorSecondary = "#8B949E"
	colorMuted     = "#6E7681"
	colorGreen     = "#3FB950"
	colorRed       = "#F85149"
	colorBorder    = "#30363D"
)

// labelCount is roughly how many date labels go under the commits chart.
const labelCount = 6

// Options controls the static report.
type Options struct {
	Width          int
	ChartHeight    int
	Color          string
	SparklineWidth int
	// Limit caps the number of cards; 0 shows everyone.
	Limit int
	// Author narrows the cards to one contributor.
	Author  string
	NoColor bool
}

// AuthorNotFoundError is returned when Options.Author matches nobody.
type AuthorNotFoundError struct {
	Query       string
	Suggestions []string
}

func (e *AuthorNotFoundError) Error() string {
	msg := fmt.Sprintf("no contributor matches %q", e.Query)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

type styles struct {
	accent    lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
	muted     lipgloss.Style
	green     lipgloss.Style
	red       lipgloss.Style
	box       lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	base := r.NewStyle()
	return styles{
		accent:    base.Foreground(lipgloss.Color(colorAccent)),
		primary:   base.Foreground(lipgloss.Color(colorPrimary)).Bold(true),
		secondary: base.Foreground(lipgloss.Color(colorSecondary)),
		muted:     base.Foreground(lipgloss.Color(colorMuted)),
		green:     base.Foreground(lipgloss.Color(colorGreen)),
		red:       base.Foreground(lipgloss.Color(colorRed)),
		box: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1),
	}
}

// Report paints derived views as header, commits chart and contributor cards.
type Report struct {
	opts     Options
	renderer *lipgloss.Renderer
	st       styles
}

// NewReport targets w; color support is detected from w unless NoColor is set.
func NewReport(w io.Writer, opts Options) *Report {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 8
	}
	if opts.SparklineWidth <= 0 {
		opts.SparklineWidth = 30
	}
	if opts.Color == "" {
		opts.Color = "#4A9EFF"
	}

	r := lipgloss.NewRenderer(w)
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Report{opts: opts, renderer: r, st: newStyles(r)}
}

// Render builds the full report for period p and sort key by.
func (rep *Report) Render(repoPath string, views *Views, p types.Period, by types.SortBy) (string, error) {
	view := views.Get(p, by)

	cards, err := rep.cards(view)
	if err != nil {
		return "", err
	}

	return strings.Join([]string{
		rep.header(repoPath, view, p, by),
		rep.commitsChart(views.Series(p)),
		cards,
	}, "\n") + "\n", nil
}

func (rep *Report) header(repoPath string, view *types.RepositoryStats, p types.Period, by types.SortBy) string {
	content := max(0, rep.opts.Width-4)

	display := repoPath
	if display == "." || display == "" {
		display = "current directory"
	}
	const prefix = "# git-graphs  |  "
	path := TruncateStart(display, max(0, content-len(prefix)))
	title := rep.st.accent.Render("# ") +
		rep.st.primary.Render("git-graphs") +
		rep.st.muted.Render("  |  ") +
		rep.st.secondary.Render(path)

	additions := FormatNumber(view.TotalAdditions) + "++"
	deletions := FormatNumber(view.TotalDeletions) + "--"
	suffix := additions + " / " + deletions
	statsPrefix := fmt.Sprintf("%d contributors  -  %s commits  -  ", len(view.Contributors), FormatNumber(view.TotalCommits))
	statsPrefix = TruncateEnd(statsPrefix, max(0, content-len(suffix)))
	stats := rep.st.secondary.Render(statsPrefix) +
		rep.st.green.Render(additions+" ") +
		rep.st.muted.Render("/ ") +
		rep.st.red.Render(deletions)

	filters := rep.st.muted.Render(fmt.Sprintf("%s  ·  sorted by %s", p.Label(), by))

	return rep.st.box.Width(max(1, rep.opts.Width-2)).Render(strings.Join([]string{title, stats, filters}, "\n"))
}

func (rep *Report) commitsChart(series []types.WeekBucket) string {
	inner := max(1, rep.opts.Width-4)
	// One column per week at minimum; older weeks scroll off the left edge.
	if len(series) > inner {
		series = series[len(series)-inner:]
	}

	counts := make([]int, len(series))
	peak := 1
	for i, w := range series {
		counts[i] = w.Commits
		peak = max(peak, w.Commits)
	}

	title := spread(
		rep.st.accent.Render("▊ ")+rep.st.primary.Render("Commits over time"),
		rep.st.muted.Render(fmt.Sprintf("Max: %d/week", peak)),
		inner,
	)

	if len(series) == 0 {
		lines := []string{title, rep.st.muted.Render("No data for selected period")}
		return rep.st.box.Width(max(1, rep.opts.Width-2)).Render(strings.Join(lines, "\n"))
	}

	dateRange := fmt.Sprintf("Weekly from %s to %s",
		FormatDate(series[0].WeekStart), FormatDate(series[len(series)-1].WeekStart))
	lines := []string{title, rep.st.muted.Render(dateRange), ""}

	for _, row := range chart.Render(chart.Floats(counts), rep.opts.ChartHeight, inner, rep.opts.Color) {
		lines = append(lines, rep.paint(row))
	}
	lines = append(lines, "", rep.st.muted.Render(chartLabels(series, inner)))

	return rep.st.box.Width(max(1, rep.opts.Width-2)).Render(strings.Join(lines, "\n"))
}

// chartLabels spaces week labels evenly across width.
func chartLabels(series []types.WeekBucket, width int) string {
	interval := max(1, len(series)/labelCount)
	var labels []string
	for i := 0; i < len(series); i += interval {
		labels = append(labels, FormatDate(series[i].WeekStart))
	}

	slot := width / len(labels)
	var sb strings.Builder
	for _, l := range labels {
		fmt.Fprintf(&sb, "%-*s", slot, TruncateEnd(l, slot))
	}
	return TruncateEnd(strings.TrimRight(sb.String(), " "), width)
}

func (rep *Report) cards(view *types.RepositoryStats) (string, error) {
	type rankedCard struct {
		rank int
		c    types.ContributorRecord
	}

	var selected []rankedCard
	if rep.opts.Author != "" {
		idx, suggestions := FindContributor(view.Contributors, rep.opts.Author)
		if idx < 0 {
			return "", &AuthorNotFoundError{Query: rep.opts.Author, Suggestions: suggestions}
		}
		selected = append(selected, rankedCard{rank: idx + 1, c: view.Contributors[idx]})
	} else {
		for i, c := range limited(view.Contributors, rep.opts.Limit) {
			selected = append(selected, rankedCard{rank: i + 1, c: c})
		}
	}

	if len(selected) == 0 {
		return rep.st.muted.Render("No contributors in this period"), nil
	}

	cols := Columns(rep.opts.Width)
	colWidth := rep.opts.Width / cols

	var rows []string
	for start := 0; start < len(selected); start += cols {
		end := min(start+cols, len(selected))
		row := make([]string, 0, end-start)
		for _, s := range selected[start:end] {
			row = append(row, rep.card(s.rank, s.c, colWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...), nil
}

func (rep *Report) card(rank int, c types.ContributorRecord, width int) string {
	inner := max(1, width-4)

	rankLabel := fmt.Sprintf("#%d", rank)
	name := TruncateEnd(c.Name, max(1, inner-len(rankLabel)-1))
	title := spread(rep.st.primary.Render(name), rep.st.secondary.Render(rankLabel), inner)

	totals := rep.st.secondary.Render(fmt.Sprintf("%d commits  ", c.Commits)) +
		rep.st.green.Render(FormatNumber(c.Additions)+"++ ") +
		rep.st.red.Render(FormatNumber(c.Deletions)+"--")

	counts := make([]int, len(c.Weekly))
	for i, w := range c.Weekly {
		counts[i] = w.Commits
	}
	spark := rep.paint(chart.Sparkline(chart.Floats(counts), min(rep.opts.SparklineWidth, inner), rep.opts.Color))

	first, last := "", ""
	if n := len(c.Weekly); n > 0 {
		first = FormatDate(c.Weekly[0].WeekStart)
		last = FormatDate(c.Weekly[n-1].WeekStart)
	}
	dates := spread(rep.st.secondary.Render(first), rep.st.secondary.Render(last), inner)

	return rep.st.box.Width(max(1, width-2)).Render(strings.Join([]string{title, "", totals, "", spark, dates}, "\n"))
}

// paint colors runs of equally colored cells with one style each.
func (rep *Report) paint(cells []chart.Cell) string {
	var sb strings.Builder
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].Color == cells[i].Color {
			run.WriteString(cells[j].Glyph)
			j++
		}
		sb.WriteString(rep.renderer.NewStyle().Foreground(lipgloss.Color(cells[i].Color)).Render(run.String()))
		i = j
	}
	return sb.String()
}

// spread left-aligns left and right-aligns right within width.
func spread(left, right string, width int) string {
	gap := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}
