package leaderboard

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/term"
)

// DefaultWidth is used when neither the terminal nor $COLUMNS reports a width.
const DefaultWidth = 80

const ellipsis = "…"

// FormatNumber abbreviates large counts: 1234 -> 1.2K, 3400000 -> 3.4M.
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

// FormatDate renders a week label such as "Jan '24".
func FormatDate(t time.Time) string {
	return t.Format("Jan '06")
}

// TruncateEnd cuts s to width runes, marking the cut with an ellipsis.
func TruncateEnd(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return ellipsis
	}
	return string(r[:width-1]) + ellipsis
}

// TruncateStart keeps the tail of s, which is the informative part of a path.
func TruncateStart(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return ellipsis
	}
	return ellipsis + string(r[len(r)-(width-1):])
}

// Columns is the number of contributor cards per row for a terminal width.
func Columns(width int) int {
	switch {
	case width >= 180:
		return 4
	case width >= 120:
		return 3
	default:
		return 2
	}
}

// TerminalWidth returns the width of the terminal behind fd, then $COLUMNS, then DefaultWidth.
func TerminalWidth(fd int) int {
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}
