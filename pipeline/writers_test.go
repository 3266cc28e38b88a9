package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aluiziolira/go-book-notes/models"
)

func sampleEntry() *models.Entry {
	return &models.Entry{
		Keyword: "테스트책",
		Rating:  3,
		Record: &models.BookRecord{
			Title:       "테스트책：부제",
			Authors:     []string{"홍길동"},
			TotalPage:   200,
			PublishDate: "2021-01",
			CoverURL:    "http://example.test/img.png",
			Tags:        []string{"국내도서", "소설"},
			DetailURL:   "http://example.test/Product/Goods/1",
		},
		Note:      models.Note{SafeTitle: "테스트책 부제", Content: "---\ntitle: 테스트책：부제\n---\n\n# 테스트책：부제"},
		CreatedAt: time.Date(2025, 11, 4, 13, 9, 13, 0, time.UTC),
	}
}

func TestMarkdownWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sample")
	writer, err := NewMarkdownWriter(dir)
	if err != nil {
		t.Fatalf("create markdown writer: %v", err)
	}

	entry := sampleEntry()
	if err := writer.Write(entry); err != nil {
		t.Fatalf("write note: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "테스트책 부제.md"))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if string(data) != entry.Note.Content {
		t.Fatalf("note content = %q", data)
	}
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog", "books.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(sampleEntry()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2", len(records))
	}
	if records[0][0] != "keyword" || records[0][1] != "title" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	row := records[1]
	if row[2] != "테스트책 부제" || row[4] != "소설" || row[6] != "200" || row[9] != "3" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestJSONWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Write(sampleEntry()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.Entry
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		if decoded.Record == nil || decoded.Record.TotalPage != 200 || decoded.Rating != 3 {
			t.Fatalf("unexpected entry: %+v", decoded)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if count != 1 {
		t.Fatalf("json lines=%d, want 1", count)
	}
}

type recordingWriter struct {
	entries  int
	closed   bool
	writeErr error
}

func (rw *recordingWriter) Write(*models.Entry) error {
	if rw.writeErr != nil {
		return rw.writeErr
	}
	rw.entries++
	return nil
}

func (rw *recordingWriter) Close() error {
	rw.closed = true
	return nil
}

func (rw *recordingWriter) Validate() error {
	return nil
}

func TestMultiWriterFansOut(t *testing.T) {
	first := &recordingWriter{}
	second := &recordingWriter{}
	mw := NewMultiWriter(first, nil, second)

	if err := mw.Write(sampleEntry()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if first.entries != 1 || second.entries != 1 {
		t.Fatalf("entries = %d/%d, want 1/1", first.entries, second.entries)
	}
	if !first.closed || !second.closed {
		t.Fatalf("all writers should be closed")
	}
}

func TestMultiWriterStopsOnPrimaryFailure(t *testing.T) {
	boom := errors.New("boom")
	first := &recordingWriter{writeErr: boom}
	second := &recordingWriter{}
	mw := NewMultiWriter(first, second)

	if err := mw.Write(sampleEntry()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if second.entries != 0 {
		t.Fatalf("secondary writer should be skipped")
	}
}

func TestDualCatalogWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "books.csv")
	jsonPath := filepath.Join(dir, "books.json")

	csvWriter, err := NewCSVWriter(csvPath)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	jsonWriter, err := NewJSONWriter(jsonPath)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	writer := NewMultiWriter(csvWriter, jsonWriter)

	if err := writer.Write(sampleEntry()); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}
