package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/vandana/paligest/internal/config"
	"github.com/vandana/paligest/internal/pali"
	"github.com/vandana/paligest/internal/segment"
	"github.com/vandana/paligest/internal/segmentstore"
	"github.com/vandana/paligest/internal/source"
)

// Worker processes a single document import job.
type Worker struct {
	store *segmentstore.Client
	log   *slog.Logger
	cfg   config.Config
	stats *ParseStats
}

func NewWorker(store *segmentstore.Client, log *slog.Logger, cfg config.Config, stats *ParseStats) *Worker {
	return &Worker{
		store: store,
		log:   log,
		cfg:   cfg,
		stats: stats,
	}
}

// Process runs the full import pipeline for a job: page extraction,
// structural parse, dedup check, and segment storage.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "work_id", job.WorkID, "filename", job.Filename)

	// Phase 1: extract per-page lines from the source bytes.
	job.SetStatus(StatusExtracting, "extracting")
	extractor, err := source.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if pdfExt, ok := extractor.(*source.PDFExtractor); ok {
		pdfExt.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	maxPages := job.MaxPages
	if maxPages <= 0 {
		maxPages = w.cfg.DefaultMaxPages
	}

	pages, err := extractor.Pages(bytes.NewReader(job.FileData()), maxPages)
	if err != nil {
		log.Error("page extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Hash the extracted text, not the raw bytes, so re-exports of the same
	// edition dedup even when PDF metadata differs.
	job.SetContentHash(ContentHashHex([]byte(flattenPages(pages))))

	existing, err := w.store.FindWorkByHash(ctx, job.ContentHash)
	switch {
	case err == nil && existing != nil:
		log.Info("duplicate document, skipping", "existing_work_id", existing.WorkID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	case err != nil && !errors.Is(err, segmentstore.ErrNotFound):
		log.Warn("dedup check failed, proceeding", "error", err)
	}

	// Phase 2: structural parse.
	job.SetStatus(StatusParsing, "parsing")
	parser := pali.NewPDFParser(job.Filename)
	if job.Title != "" {
		parser.SetWorkTitle(job.Title)
	}

	maxChunk := job.MaxChunkSize
	if maxChunk <= 0 {
		maxChunk = w.cfg.DefaultMaxChunkSize
	}

	start := time.Now()
	segments, err := parser.Parse(pali.ParseOptions{
		MaxPages:     maxPages,
		MaxChunkSize: maxChunk,
		PagesLines:   pages,
	})
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	w.stats.Record(time.Since(start), len(pages))

	job.SetParseResult(len(pages), len(parser.Headings), len(segments),
		parser.HierarchyLabels.Level1, parser.HierarchyLabels.Level2)
	log.Info("parsed document",
		"pages", len(pages),
		"headings", len(parser.Headings),
		"segments", len(segments),
		"level_1", parser.HierarchyLabels.Level1,
		"level_2", parser.HierarchyLabels.Level2,
	)

	if len(segments) == 0 {
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 3: store work metadata and segments.
	job.SetStatus(StatusStoring, "storing")
	title := job.Title
	if title == "" {
		title = strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))
	}
	err = w.withRetry(ctx, log, "put work", func() error {
		return w.store.PutWork(ctx, job.WorkID, segmentstore.WorkRequest{
			Title:           title,
			Filename:        job.Filename,
			ContentHash:     job.ContentHash,
			HierarchyLabels: parser.HierarchyLabels,
			Headings:        parser.Headings,
		})
	})
	if err != nil {
		log.Error("work metadata write failed", "error", err)
		job.AddError(fmt.Sprintf("put work: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	stored, hadErrors := w.storeSegments(ctx, log, job, segments)
	job.AddSegmentsStored(stored)
	log.Info("storage complete", "stored", stored, "total", len(segments))

	switch {
	case hadErrors && stored > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// storeSegments bulk-inserts segments in batches with bounded concurrency,
// retrying transient store failures.
func (w *Worker) storeSegments(ctx context.Context, log *slog.Logger, job *Job, segments []segment.ParsedSegment) (int, bool) {
	batchSize := w.cfg.SegmentBatchSize
	var batches [][]segment.ParsedSegment
	for i := 0; i < len(segments); i += batchSize {
		end := min(i+batchSize, len(segments))
		batches = append(batches, segments[i:end])
	}

	type batchResult struct {
		inserted int
		err      error
		idx      int
	}
	results := make(chan batchResult, len(batches))
	sem := make(chan struct{}, w.cfg.MaxConcurrentStore)

	for i, batch := range batches {
		sem <- struct{}{}
		go func(i int, batch []segment.ParsedSegment) {
			defer func() { <-sem }()
			var inserted int
			err := w.withRetry(ctx, log, fmt.Sprintf("batch %d", i), func() error {
				var err error
				inserted, err = w.store.BulkInsertSegments(ctx, job.WorkID, batch)
				return err
			})
			results <- batchResult{inserted: inserted, err: err, idx: i}
		}(i, batch)
	}

	stored := 0
	hadErrors := false
	for range batches {
		r := <-results
		if r.err != nil {
			log.Error("segment batch store failed", "batch", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("batch %d: %s", r.idx, r.err))
			hadErrors = true
			continue
		}
		stored += r.inserted
	}
	return stored, hadErrors
}

// withRetry retries fn on retryable store errors with jittered backoff.
func (w *Worker) withRetry(ctx context.Context, log *slog.Logger, what string, fn func() error) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "op", what, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// flattenPages joins all extracted lines into one string for content hashing.
func flattenPages(pages [][]string) string {
	var sb strings.Builder
	for _, lines := range pages {
		for _, line := range lines {
			if line == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
		}
	}
	return sb.String()
}
