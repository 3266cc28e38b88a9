package models

import "strconv"

// BatchReport accumulates the three report lists of a run. Each list receives
// a batch marker entry when a batch file is opened.
type BatchReport struct {
	NotFound []string
	NotMatch []string
	Titles   []string

	Batches    int
	Produced   int
	Missed     int
	Mismatched int
}

// NewBatchReport returns an empty report.
func NewBatchReport() *BatchReport {
	return &BatchReport{
		NotFound: []string{},
		NotMatch: []string{},
		Titles:   []string{},
	}
}

// StartBatch appends the batch index marker to every list.
func (r *BatchReport) StartBatch(index int) {
	marker := strconv.Itoa(index)
	r.NotFound = append(r.NotFound, marker)
	r.NotMatch = append(r.NotMatch, marker)
	r.Titles = append(r.Titles, marker)
	r.Batches++
}

// AddNotFound records a keyword that produced no note.
func (r *BatchReport) AddNotFound(keyword string) {
	r.NotFound = append(r.NotFound, keyword)
	r.Missed++
}

// AddProduced records a produced note, and a mismatch when the safe title
// differs from the requested keyword.
func (r *BatchReport) AddProduced(keyword, safeTitle string) {
	if safeTitle != keyword {
		r.NotMatch = append(r.NotMatch, keyword+" | "+safeTitle)
		r.Mismatched++
	}
	r.Titles = append(r.Titles, safeTitle)
	r.Produced++
}
