// Package models defines data structures shared by the resolver, extractor,
// renderer, and batch pipeline.
package models

import "time"

// DetailPageRef is the path (or absolute URL) of a single book's detail page
// as found in a search result.
type DetailPageRef string

// BookRecord holds the bibliographic fields extracted from a detail page.
type BookRecord struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	TotalPage   int      `json:"total_page"`
	PublishDate string   `json:"publish_date"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Tags        []string `json:"tags"`
	DetailURL   string   `json:"detail_url,omitempty"`
}

// Category returns the second collected tag. ok is false when the page
// exposed fewer than two tags.
func (b *BookRecord) Category() (string, bool) {
	if b == nil || len(b.Tags) < 2 {
		return "", false
	}
	return b.Tags[1], true
}

// Note is a rendered markdown document plus the filesystem-safe title used to
// name it.
type Note struct {
	SafeTitle string
	Content   string
}

// Entry is one successfully produced book flowing to the output writers.
type Entry struct {
	Keyword   string      `json:"keyword"`
	Rating    int         `json:"rating"`
	Record    *BookRecord `json:"record"`
	Note      Note        `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

// RunResult holds the overall outcome of a batch run.
type RunResult struct {
	Report       *BatchReport
	StartTime    time.Time
	EndTime      time.Time
	BatchesRead  int
	KeywordCount int
	ErrorCount   int
	Interrupted  bool
}
