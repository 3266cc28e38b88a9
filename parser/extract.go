package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-book-notes/models"
)

// ErrMissingTitle is returned when a detail page carries no title heading.
var ErrMissingTitle = errors.New("parser: detail page has no title")

// Selection paths on the bookstore's markup.
const (
	SearchResultLinkPath = "#yesSchList > li:nth-child(1) > div > div.item_info > div.info_row.info_name > a.gd_name"

	tagPath       = "#infoset_goodsCate > div.infoSetCont_wrap > dl:nth-child(1) > dd > ul > li > a"
	titlePath     = "#yDetailTopWrap > div.topColRgt > div.gd_infoTop > div > h2"
	subtitlePath  = "#yDetailTopWrap > div.topColRgt > div.gd_infoTop > div > h3"
	authorPath    = "#yDetailTopWrap > div.topColRgt > div.gd_infoTop > span.gd_pubArea > span.gd_auth"
	totalPagePath = "#infoset_specific > div.infoSetCont_wrap > div > table > tbody > tr:nth-child(2) > td"
	publishPath   = "#yDetailTopWrap > div.topColRgt > div.gd_infoTop > span.gd_pubArea > span.gd_date"
	coverPath     = "#yDetailTopWrap > div.topColLft > div > span > em > img"
)

// SearchResultHref returns the detail link of the first search result.
func SearchResultHref(doc Document) (models.DetailPageRef, bool) {
	href, ok := doc.Attr(SearchResultLinkPath, "href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return models.DetailPageRef(strings.TrimSpace(href)), true
}

// Extract reads every bibliographic field from a detail page. Missing
// elements default per field; only an empty title fails the record.
func Extract(doc Document) (*models.BookRecord, error) {
	title := Apply(TitleRules, doc.Text(titlePath))
	if title == "" {
		return nil, ErrMissingTitle
	}
	title = MergeTitle(title, Apply(SubtitleRules, doc.Text(subtitlePath)))

	cover, _ := doc.Attr(coverPath, "src")

	return &models.BookRecord{
		Title:       title,
		Authors:     ExtractAuthors(doc.ChildTexts(authorPath)),
		TotalPage:   ParseTotalPage(doc.Text(totalPagePath)),
		PublishDate: FormatPublishDate(doc.Text(publishPath)),
		CoverURL:    cover,
		Tags:        CollectTags(doc.Texts(tagPath)),
	}, nil
}

// CollectTags strips whitespace from each tag and drops repeats, keeping
// first-seen order.
func CollectTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, text := range raw {
		tag := Apply(TagRules, text)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// ExtractAuthors keeps author children in page order, skipping separator
// nodes whose text starts with a newline.
func ExtractAuthors(children []string) []string {
	authors := make([]string, 0, len(children))
	for _, text := range children {
		if strings.HasPrefix(text, "\n") {
			continue
		}
		authors = append(authors, text)
	}
	return authors
}

// ParseTotalPage converts a specification cell such as "312쪽 | 552g" to 312.
// Anything that does not parse yields 0.
func ParseTotalPage(cell string) int {
	first, _, _ := strings.Cut(strings.TrimSpace(cell), " ")
	pages, err := strconv.Atoi(dropLastRune(first))
	if err != nil || pages < 0 {
		return 0
	}
	return pages
}

// FormatPublishDate turns "2021년 01월 15일" into "2021-01-15". Each
// space-separated component loses its unit marker; empty components stay
// empty so gaps remain visible as extra dashes.
func FormatPublishDate(text string) string {
	parts := strings.Split(strings.TrimSpace(text), " ")
	for i, part := range parts {
		parts[i] = dropLastRune(part)
	}
	return strings.Join(parts, "-")
}
