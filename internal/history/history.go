// Package history writes derived views to CSV files. Files are output only;
// nothing in gitgraphs reads them back.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gitgraphs/internal/types"
)

// TimestampLayout is the suffix format of exported file names.
const TimestampLayout = "20060102_150405"

// WriteRowsToCSV writes header and data to dir/filename, creating dir when needed.
func WriteRowsToCSV(dir, filename string, header []string, data [][]string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("export directory not specified")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file %s: %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range data {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV file %s: %w", filePath, err)
	}
	return filePath, nil
}

// WriteContributorsCSV writes one ranked row per contributor.
func WriteContributorsCSV(dir string, contributors []types.ContributorRecord, at time.Time) (string, error) {
	filename := fmt.Sprintf("contributors_%s.csv", at.Format(TimestampLayout))
	header := []string{"Rank", "Name", "Email", "Key", "Commits", "Additions", "Deletions", "FirstWeek", "LastWeek"}
	data := make([][]string, len(contributors))
	for i, c := range contributors {
		first, last := "", ""
		if n := len(c.Weekly); n > 0 {
			first = c.Weekly[0].Key()
			last = c.Weekly[n-1].Key()
		}
		data[i] = []string{
			strconv.Itoa(i + 1),
			c.Name,
			c.Email,
			c.Key,
			strconv.Itoa(c.Commits),
			strconv.Itoa(c.Additions),
			strconv.Itoa(c.Deletions),
			first,
			last,
		}
	}
	return WriteRowsToCSV(dir, filename, header, data)
}

// WriteWeeklyCSV writes the repository-wide weekly series.
func WriteWeeklyCSV(dir string, weekly []types.WeekBucket, at time.Time) (string, error) {
	filename := fmt.Sprintf("weekly_%s.csv", at.Format(TimestampLayout))
	header := []string{"WeekStart", "Commits", "Additions", "Deletions"}
	data := make([][]string, len(weekly))
	for i, w := range weekly {
		data[i] = []string{
			w.Key(),
			strconv.Itoa(w.Commits),
			strconv.Itoa(w.Additions),
			strconv.Itoa(w.Deletions),
		}
	}
	return WriteRowsToCSV(dir, filename, header, data)
}

// Export writes both files for a derived view and returns their paths.
func Export(dir string, view *types.RepositoryStats, at time.Time) ([]string, error) {
	contributors, err := WriteContributorsCSV(dir, view.Contributors, at)
	if err != nil {
		return nil, err
	}
	weekly, err := WriteWeeklyCSV(dir, view.Weekly, at)
	if err != nil {
		return []string{contributors}, err
	}
	return []string{contributors, weekly}, nil
}
