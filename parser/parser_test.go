package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aluiziolira/go-book-notes/models"
)

type detailFixture struct {
	Title     string
	Subtitle  string
	Authors   []string
	Tags      []string
	PageCell  string
	Published string
	Cover     string
}

func buildDetailPage(f detailFixture) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="yDetailTopWrap">`)
	b.WriteString(`<div class="topColLft"><div><span><em>`)
	if f.Cover != "" {
		b.WriteString(`<img src="` + f.Cover + `">`)
	}
	b.WriteString(`</em></span></div></div>`)
	b.WriteString(`<div class="topColRgt"><div class="gd_infoTop"><div>`)
	if f.Title != "" {
		b.WriteString(`<h2 class="gd_name">` + f.Title + `</h2>`)
	}
	if f.Subtitle != "" {
		b.WriteString(`<h3 class="gd_nameE">` + f.Subtitle + `</h3>`)
	}
	b.WriteString(`</div><span class="gd_pubArea"><span class="gd_auth">`)
	for i, author := range f.Authors {
		if i > 0 {
			b.WriteString("<em>\n, </em>")
		}
		b.WriteString(`<a href="#">` + author + `</a>`)
	}
	b.WriteString(`</span>`)
	if f.Published != "" {
		b.WriteString(`<span class="gd_date">` + f.Published + `</span>`)
	}
	b.WriteString(`</span></div></div></div>`)

	b.WriteString(`<div id="infoset_goodsCate"><div class="infoSetCont_wrap"><dl><dt>카테고리</dt><dd><ul>`)
	for _, tag := range f.Tags {
		b.WriteString(`<li><a href="#">` + tag + `</a></li>`)
	}
	b.WriteString(`</ul></dd></dl></div></div>`)

	b.WriteString(`<div id="infoset_specific"><div class="infoSetCont_wrap"><div><table><tbody>`)
	b.WriteString(`<tr><th>발행일</th><td>2021</td></tr>`)
	b.WriteString(`<tr><th>쪽수</th><td>` + f.PageCell + `</td></tr>`)
	b.WriteString(`</tbody></table></div></div></div>`)
	b.WriteString(`</body></html>`)
	return b.String()
}

func mustParse(t *testing.T, markup string) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTML([]byte(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestExtractFullRecord(t *testing.T) {
	doc := mustParse(t, buildDetailPage(detailFixture{
		Title:     "Foo (2020) [Best]",
		Subtitle:  "A Journey",
		Authors:   []string{"홍길동", "임꺽정"},
		Tags:      []string{"국내도서", " 소설 / 시 ", "국내도서"},
		PageCell:  "312쪽 | 552g | 152*223*30mm",
		Published: "2021년 01월 15일",
		Cover:     "https://image.example.test/cover.jpg",
	}))

	rec, err := Extract(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.Title != "Foo：A Journey" {
		t.Fatalf("title = %q, want %q", rec.Title, "Foo：A Journey")
	}
	if want := []string{"홍길동", "임꺽정"}; !reflect.DeepEqual(rec.Authors, want) {
		t.Fatalf("authors = %v, want %v", rec.Authors, want)
	}
	if want := []string{"국내도서", "소설/시"}; !reflect.DeepEqual(rec.Tags, want) {
		t.Fatalf("tags = %v, want %v", rec.Tags, want)
	}
	if rec.TotalPage != 312 {
		t.Fatalf("total page = %d, want 312", rec.TotalPage)
	}
	if rec.PublishDate != "2021-01-15" {
		t.Fatalf("publish date = %q, want 2021-01-15", rec.PublishDate)
	}
	if rec.CoverURL != "https://image.example.test/cover.jpg" {
		t.Fatalf("cover = %q", rec.CoverURL)
	}
	if category, ok := rec.Category(); !ok || category != "소설/시" {
		t.Fatalf("category = %q/%v", category, ok)
	}
}

func TestExtractToleratesMissingFields(t *testing.T) {
	doc := mustParse(t, buildDetailPage(detailFixture{Title: "Lonely Title"}))

	rec, err := Extract(doc)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rec.Title != "Lonely Title" {
		t.Fatalf("title = %q", rec.Title)
	}
	if len(rec.Authors) != 0 || len(rec.Tags) != 0 {
		t.Fatalf("expected empty authors/tags, got %v / %v", rec.Authors, rec.Tags)
	}
	if rec.TotalPage != 0 || rec.PublishDate != "" || rec.CoverURL != "" {
		t.Fatalf("expected zero defaults, got %+v", rec)
	}
	if _, ok := rec.Category(); ok {
		t.Fatalf("category should be absent")
	}
}

func TestExtractMissingTitle(t *testing.T) {
	doc := mustParse(t, buildDetailPage(detailFixture{Subtitle: "only a subtitle"}))
	if _, err := Extract(doc); !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}

	empty := mustParse(t, "")
	if _, err := Extract(empty); !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle for empty payload, got %v", err)
	}
}

func TestSearchResultHref(t *testing.T) {
	page := `<ul id="yesSchList">
<li><div><div class="item_info"><div class="info_row info_name"><a class="gd_name" href="/Product/Goods/111">첫번째</a></div></div></div></li>
<li><div><div class="item_info"><div class="info_row info_name"><a class="gd_name" href="/Product/Goods/222">두번째</a></div></div></div></li>
</ul>`

	href, ok := SearchResultHref(mustParse(t, page))
	if !ok || href != "/Product/Goods/111" {
		t.Fatalf("href = %q/%v, want /Product/Goods/111", href, ok)
	}

	if _, ok := SearchResultHref(mustParse(t, `<ul id="yesSchList"></ul>`)); ok {
		t.Fatalf("empty result list should yield no href")
	}
	if _, ok := SearchResultHref(mustParse(t, "")); ok {
		t.Fatalf("empty payload should yield no href")
	}
}

func TestParseTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "with unit and details", input: "312쪽 | 552g", expected: 312},
		{name: "unit only", input: "200쪽", expected: 200},
		{name: "padded cell", input: "\n  96쪽 | 120g  ", expected: 96},
		{name: "non numeric", input: "알수없음", expected: 0},
		{name: "empty", input: "", expected: 0},
		{name: "negative", input: "-5쪽", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTotalPage(tt.input); got != tt.expected {
				t.Errorf("ParseTotalPage(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatPublishDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "full date", input: "2021년 01월 15일", expected: "2021-01-15"},
		{name: "year and month", input: "2021년 01월", expected: "2021-01"},
		{name: "year only", input: "2019년", expected: "2019"},
		{name: "gap preserved", input: "2021년  15일", expected: "2021--15"},
		{name: "surrounding space", input: " 2020년 12월 ", expected: "2020-12"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPublishDate(tt.input); got != tt.expected {
				t.Errorf("FormatPublishDate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTitleRules(t *testing.T) {
	tests := []struct {
		name     string
		rules    []Rule
		input    string
		expected string
	}{
		{name: "strip segments", rules: TitleRules, input: "Foo (2020) [Best]", expected: "Foo"},
		{name: "colon and question", rules: TitleRules, input: " Why? Because: yes ", expected: "Why？ Because： yes"},
		{name: "every colon", rules: TitleRules, input: "a:b:c", expected: "a：b：c"},
		{name: "subtitle keeps parens", rules: SubtitleRules, input: " part (1): intro ", expected: "part (1)： intro"},
		{name: "tag whitespace", rules: TagRules, input: " 에세이 \n 산문 ", expected: "에세이산문"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.rules, tt.input); got != tt.expected {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMergeTitle(t *testing.T) {
	if got := MergeTitle("Foo", "A Journey"); got != "Foo：A Journey" {
		t.Fatalf("merge = %q", got)
	}
	if got := MergeTitle("Foo", ""); got != "Foo" {
		t.Fatalf("merge without subtitle = %q", got)
	}
}

func TestExtractAuthorsSkipsSeparators(t *testing.T) {
	got := ExtractAuthors([]string{"홍길동", "\n 저", "임꺽정", "\n"})
	if want := []string{"홍길동", "임꺽정"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("authors = %v, want %v", got, want)
	}
}

func TestValidateRecord(t *testing.T) {
	if err := ValidateRecord(nil); err == nil {
		t.Fatalf("nil record should fail")
	}
	if err := ValidateRecord(&models.BookRecord{Title: "  "}); err == nil {
		t.Fatalf("record without title should fail")
	}
	if err := ValidateRecord(&models.BookRecord{Title: "ok", TotalPage: 10}); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}
