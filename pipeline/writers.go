package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aluiziolira/go-book-notes/models"
)

// MarkdownWriter saves each note as <SafeTitle>.md in a directory.
type MarkdownWriter struct {
	dir     string
	mu      sync.Mutex
	written int
}

// NewMarkdownWriter creates the output directory if needed.
func NewMarkdownWriter(dir string) (*MarkdownWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create note dir %q: %w", dir, err)
	}
	return &MarkdownWriter{dir: dir}, nil
}

// Path returns where a note with the given safe title is stored.
func (mw *MarkdownWriter) Path(safeTitle string) string {
	return filepath.Join(mw.dir, safeTitle+".md")
}

// Write saves the entry's note, replacing any previous file of that name.
func (mw *MarkdownWriter) Write(entry *models.Entry) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	path := mw.Path(entry.Note.SafeTitle)
	if err := os.WriteFile(path, []byte(entry.Note.Content), 0o644); err != nil {
		return fmt.Errorf("write note %q: %w", path, err)
	}
	mw.written++
	return nil
}

// Written returns how many notes were saved.
func (mw *MarkdownWriter) Written() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.written
}

func (mw *MarkdownWriter) Close() error {
	return nil
}

// Validate ensures the note directory still exists.
func (mw *MarkdownWriter) Validate() error {
	info, err := os.Stat(mw.dir)
	if err != nil {
		return fmt.Errorf("stat note dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("note dir %q is not a directory", mw.dir)
	}
	return nil
}

var catalogHeader = []string{
	"keyword", "title", "safe_title", "authors", "category", "tags", "total_page",
	"publish_date", "cover_url", "rating", "detail_url", "created_at",
}

// CSVWriter writes a catalog row per produced book.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(catalogHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends the entry to the CSV output.
func (cw *CSVWriter) Write(entry *models.Entry) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	rec := entry.Record
	category, _ := rec.Category()
	record := []string{
		entry.Keyword,
		rec.Title,
		entry.Note.SafeTitle,
		strings.Join(rec.Authors, ", "),
		category,
		strings.Join(rec.Tags, " "),
		strconv.Itoa(rec.TotalPage),
		rec.PublishDate,
		rec.CoverURL,
		strconv.Itoa(entry.Rating),
		rec.DetailURL,
		entry.CreatedAt.Format(time.RFC3339),
	}
	if err := cw.writer.Write(record); err != nil {
		return fmt.Errorf("write csv record: %w", err)
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes newline-delimited JSON entries.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: encoder,
	}, nil
}

// Write appends the entry in JSONL format.
func (jw *JSONWriter) Write(entry *models.Entry) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.encoder.Encode(entry); err != nil {
		return fmt.Errorf("encode json record: %w", err)
	}
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
