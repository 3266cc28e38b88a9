package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// BatchFileName returns the input file name for a batch index.
func BatchFileName(index int) string {
	return strconv.Itoa(index) + ".txt"
}

// ReadBatch returns the non-empty keywords of batch index in file order.
func ReadBatch(dir string, index int) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, BatchFileName(index)))
	if err != nil {
		return nil, fmt.Errorf("read batch %d: %w", index, err)
	}
	return SplitKeywords(string(data)), nil
}

// SplitKeywords splits content on newlines, dropping carriage returns,
// surrounding whitespace, and blank lines.
func SplitKeywords(content string) []string {
	lines := strings.Split(content, "\n")
	keywords := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		keywords = append(keywords, line)
	}
	return keywords
}
