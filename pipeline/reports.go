package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-book-notes/models"
)

// Report file names.
const (
	NotFoundFile = "Not Found.txt"
	NotMatchFile = "Not Matchs.txt"
	TitlesFile   = "Titles.txt"
)

// WriteReports writes the three report lists into dir, one entry per line.
func WriteReports(dir string, report *models.BatchReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir %q: %w", dir, err)
	}

	files := []struct {
		name    string
		entries []string
	}{
		{NotFoundFile, report.NotFound},
		{NotMatchFile, report.NotMatch},
		{TitlesFile, report.Titles},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(strings.Join(f.entries, "\n")), 0o644); err != nil {
			return fmt.Errorf("write report %q: %w", path, err)
		}
	}
	return nil
}
