package models

import (
	"reflect"
	"testing"
)

func TestBatchReportMarkersAndOutcomes(t *testing.T) {
	r := NewBatchReport()
	r.StartBatch(1)
	r.AddProduced("테스트책", "테스트책")
	r.AddProduced("foo", "Foo Bar")
	r.AddNotFound("없는책")
	r.StartBatch(4)
	r.AddNotFound("other")

	if want := []string{"1", "없는책", "4", "other"}; !reflect.DeepEqual(r.NotFound, want) {
		t.Fatalf("not found = %v, want %v", r.NotFound, want)
	}
	if want := []string{"1", "foo | Foo Bar", "4"}; !reflect.DeepEqual(r.NotMatch, want) {
		t.Fatalf("not match = %v, want %v", r.NotMatch, want)
	}
	if want := []string{"1", "테스트책", "Foo Bar", "4"}; !reflect.DeepEqual(r.Titles, want) {
		t.Fatalf("titles = %v, want %v", r.Titles, want)
	}
	if r.Batches != 2 || r.Produced != 2 || r.Missed != 2 || r.Mismatched != 1 {
		t.Fatalf("counters = %d/%d/%d/%d, want 2/2/2/1", r.Batches, r.Produced, r.Missed, r.Mismatched)
	}
}

func TestBookRecordCategory(t *testing.T) {
	tests := []struct {
		name   string
		tags   []string
		want   string
		wantOK bool
	}{
		{name: "two tags", tags: []string{"국내도서", "소설"}, want: "소설", wantOK: true},
		{name: "one tag", tags: []string{"국내도서"}, wantOK: false},
		{name: "no tags", tags: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &BookRecord{Title: "x", Tags: tt.tags}
			got, ok := rec.Category()
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("Category() = %q/%v, want %q/%v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
