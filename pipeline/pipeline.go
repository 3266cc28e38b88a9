// Package pipeline drives batch files through lookup, rendering, and output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-book-notes/config"
	"github.com/aluiziolira/go-book-notes/models"
	"github.com/aluiziolira/go-book-notes/parser"
	"github.com/aluiziolira/go-book-notes/scraper"
)

// OutputWriter defines the interface for produced notes.
type OutputWriter interface {
	Write(entry *models.Entry) error
	Close() error
	Validate() error
}

// Looker resolves a keyword and extracts its book record.
type Looker interface {
	Lookup(ctx context.Context, keyword string) (*models.BookRecord, error)
}

// Renderer turns a record and rating into a note.
type Renderer interface {
	Render(rec *models.BookRecord, rating int) models.Note
}

type outcome int

const (
	outcomeProduced outcome = iota
	outcomeMissed
	outcomeFailed
	outcomeInterrupted
)

// Pipeline runs batches strictly in order, one keyword at a time. It owns
// the report; nothing else mutates it.
type Pipeline struct {
	cfg      *config.Config
	looker   Looker
	renderer Renderer
	writer   OutputWriter
	now      func() time.Time
}

// NewPipeline wires the lookup, rendering, and output stages.
func NewPipeline(cfg *config.Config, looker Looker, renderer Renderer, writer OutputWriter) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		looker:   looker,
		renderer: renderer,
		writer:   writer,
		now:      time.Now,
	}
}

// Run processes batch files 1..MaxBatches. Missing files are skipped and a
// failing keyword is recorded as not found; only cancellation stops early.
func (p *Pipeline) Run(ctx context.Context) (*models.RunResult, error) {
	result := &models.RunResult{
		Report:    models.NewBatchReport(),
		StartTime: p.now(),
	}
	defer func() {
		result.EndTime = p.now()
	}()

batches:
	for index := 1; index <= p.cfg.MaxBatches; index++ {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		name := BatchFileName(index)
		keywords, err := ReadBatch(p.cfg.InputDir, index)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("batch file not found", slog.String("file", name))
			continue
		}
		if err != nil {
			slog.Warn("batch file unreadable", slog.String("file", name), slog.Any("error", err))
			continue
		}

		result.BatchesRead++
		result.Report.StartBatch(index)
		slog.Debug("batch started", slog.Int("batch", index), slog.Int("keywords", len(keywords)))

		for _, keyword := range keywords {
			result.KeywordCount++
			switch p.processKeyword(ctx, keyword, index, result.Report) {
			case outcomeFailed:
				result.ErrorCount++
			case outcomeInterrupted:
				result.KeywordCount--
				result.Interrupted = true
				break batches
			}
		}
	}

	return result, nil
}

func (p *Pipeline) processKeyword(ctx context.Context, keyword string, rating int, report *models.BatchReport) outcome {
	rec, err := p.looker.Lookup(ctx, keyword)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return outcomeInterrupted
	case errors.Is(err, scraper.ErrNotResolved), errors.Is(err, parser.ErrMissingTitle):
		slog.Info("no title found", slog.String("keyword", keyword))
		report.AddNotFound(keyword)
		return outcomeMissed
	default:
		return p.fail(report, keyword, fmt.Errorf("lookup: %w", err))
	}

	if err := parser.ValidateRecord(rec); err != nil {
		return p.fail(report, keyword, err)
	}

	n := p.renderer.Render(rec, rating)
	if n.SafeTitle == "" {
		return p.fail(report, keyword, fmt.Errorf("title %q has no usable file name", rec.Title))
	}

	entry := &models.Entry{
		Keyword:   keyword,
		Rating:    rating,
		Record:    rec,
		Note:      n,
		CreatedAt: p.now(),
	}
	if err := p.writer.Write(entry); err != nil {
		return p.fail(report, keyword, fmt.Errorf("write note: %w", err))
	}

	report.AddProduced(keyword, n.SafeTitle)
	slog.Info("note complete", slog.String("title", n.SafeTitle), slog.Int("rating", rating))
	return outcomeProduced
}

func (p *Pipeline) fail(report *models.BatchReport, keyword string, err error) outcome {
	slog.Error("keyword failed", slog.String("keyword", keyword), slog.Any("error", err))
	report.AddNotFound(keyword)
	return outcomeFailed
}
