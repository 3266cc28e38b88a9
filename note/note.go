// Package note renders book records into markdown notes with a front-matter
// header, and derives the filesystem-safe name each note is saved under.
package note

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aluiziolira/go-book-notes/models"
	"github.com/aluiziolira/go-book-notes/parser"
)

const (
	TagPrefix       = "📚독서"
	StatusFinished  = "🟩 완료"
	NotePlaceholder = "❌"

	createdLayout = "2006-01-02 15:04"
	dateLayout    = "2006-01-02"
)

var whitespaceRun = regexp.MustCompile(`[\s\p{Z}]{2,}`)

// SafeTitleRules turn a merged title into a name usable as a file entry.
var SafeTitleRules = []parser.Rule{
	{Name: "colon_to_space", Apply: func(s string) string {
		return strings.ReplaceAll(s, parser.FullwidthColon, " ")
	}},
	{Name: "drop_question", Apply: func(s string) string {
		return strings.ReplaceAll(s, parser.FullwidthQuestion, "")
	}},
	{Name: "fullwidth_solidus", Apply: func(s string) string {
		return strings.ReplaceAll(s, "/", "／")
	}},
	{Name: "collapse_whitespace", Apply: func(s string) string {
		return whitespaceRun.ReplaceAllString(s, " ")
	}},
	parser.TrimSpace,
}

// SafeTitle sanitizes a title for use as a file name. It is idempotent.
func SafeTitle(title string) string {
	return parser.Apply(SafeTitleRules, title)
}

// Renderer renders notes stamped with a fixed offset from the current time.
type Renderer struct {
	offset time.Duration
	now    func() time.Time
}

// NewRenderer returns a renderer using the wall clock.
func NewRenderer(offset time.Duration) *Renderer {
	return &Renderer{offset: offset, now: time.Now}
}

// WithClock replaces the clock, mostly for tests.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Stamp returns the current instant shifted by the configured offset.
func (r *Renderer) Stamp() time.Time {
	return r.now().UTC().Add(r.offset)
}

// Render produces the note for rec with the given rating.
func (r *Renderer) Render(rec *models.BookRecord, rating int) models.Note {
	return Render(rec, rating, r.Stamp())
}

type field struct {
	key   string
	value string
}

// Render builds the header and heading for rec using stamp as the creation
// and reading date.
func Render(rec *models.BookRecord, rating int, stamp time.Time) models.Note {
	category, _ := rec.Category()
	today := stamp.Format(dateLayout)

	fields := []field{
		{"created", stamp.Format(createdLayout)},
		{"tag", strings.Join(append([]string{TagPrefix}, rec.Tags...), " ")},
		{"title", rec.Title},
		{"author", strings.Join(rec.Authors, ", ")},
		{"category", category},
		{"total_page", strconv.Itoa(rec.TotalPage)},
		{"publish_date", rec.PublishDate},
		{"cover_url", rec.CoverURL},
		{"status", StatusFinished},
		{"start_read_date", today},
		{"finish_read_date", today},
		{"my_rate", strconv.Itoa(rating)},
		{"book_note", NotePlaceholder},
	}

	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range fields {
		b.WriteString(f.key)
		b.WriteString(":")
		if f.value != "" {
			b.WriteString(" ")
			b.WriteString(f.value)
		}
		b.WriteString("\n")
	}
	b.WriteString("---\n\n# ")
	b.WriteString(rec.Title)

	return models.Note{
		SafeTitle: SafeTitle(rec.Title),
		Content:   b.String(),
	}
}
