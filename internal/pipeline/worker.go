package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/teigest/internal/assemble"
	"github.com/dgallion1/teigest/internal/metadata"
	"github.com/dgallion1/teigest/internal/parser"
	"github.com/dgallion1/teigest/internal/stats"
	"github.com/dgallion1/teigest/internal/tei"
)

// OutputResolver places the TEI file of a document.
type OutputResolver interface {
	Path(meta metadata.Metadata) (string, error)
}

// OutputFunc adapts a function to OutputResolver.
type OutputFunc func(meta metadata.Metadata) (string, error)

func (f OutputFunc) Path(meta metadata.Metadata) (string, error) {
	return f(meta)
}

// WorkerOptions configures document processing.
type WorkerOptions struct {
	Assemble assemble.Options
	Parse    parser.Options
	Timeout  time.Duration // per document; zero means none
}

// Worker processes a single document job.
type Worker struct {
	writer *tei.Writer
	output OutputResolver
	stats  *stats.Collector
	log    *slog.Logger
	opts   WorkerOptions
}

func NewWorker(output OutputResolver, st *stats.Collector, log *slog.Logger, opts WorkerOptions) *Worker {
	return &Worker{
		writer: tei.NewWriter(log),
		output: output,
		stats:  st,
		log:    log,
		opts:   opts,
	}
}

// Process runs infer, parse, assemble and write for a job. The document
// timeout is checked between phases; a phase in progress is not
// interrupted.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "document", job.Document)
	if w.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.Timeout)
		defer cancel()
	}

	rec := stats.Document{Outcome: stats.OutcomeFailed}
	final, finalPhase := StatusFailed, "metadata"
	defer func() {
		job.releaseSources()
		rec.Duration = time.Since(start)
		job.SetLatency(rec.Duration)
		if w.stats != nil {
			w.stats.Record(rec)
		}
		job.SetStatus(final, finalPhase)
	}()

	fail := func(phase string, err error) {
		log.Error("curation failed", "phase", phase, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", phase, err))
		final, finalPhase = StatusFailed, phase
	}

	// Phase 1: Metadata
	meta, err := metadata.Infer(job.Document)
	if err != nil {
		fail("metadata", err)
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	sources := job.Sources()
	entries, err := parser.ParseSources(sources, w.opts.Parse)
	if err != nil {
		fail("parsing", err)
		return
	}
	if err := ctx.Err(); err != nil {
		fail("parsing", err)
		return
	}
	log.Debug("parsed sources", "sources", len(sources), "entries", len(entries))

	// Phase 3: Assemble
	job.SetStatus(StatusAssembling, "assembling")
	res, err := assemble.Assemble(meta, entries, w.opts.Assemble)
	if err != nil {
		fail("assembling", err)
		return
	}
	job.SetAssembled(res.Pages, res.Identifiers)
	rec.Identifiers = res.Identifiers
	if err := ctx.Err(); err != nil {
		fail("assembling", err)
		return
	}

	// Phase 4: Write and verify
	job.SetStatus(StatusWriting, "writing")
	path, err := w.output.Path(meta)
	if err != nil {
		fail("writing", err)
		return
	}
	out, err := w.writer.WriteFile(res.Root, path)
	if err != nil {
		if errors.Is(err, tei.ErrRoundTripMismatch) {
			rec.Outcome = stats.OutcomeInvalid
			log.Error("round trip mismatch", "path", path, "error", err)
			job.AddError(err.Error())
			final, finalPhase = StatusInvalid, "verifying"
			return
		}
		fail("writing", err)
		return
	}

	unrecognized := make([]string, 0, len(out.Report.Unrecognized))
	for _, u := range out.Report.Unrecognized {
		unrecognized = append(unrecognized, u.Error())
	}
	job.SetWritten(out.Path, ContentHashHex(out.Data), out.Report.Pruned, unrecognized)
	rec.Outcome = stats.OutcomeCompleted
	rec.Pruned = out.Report.Pruned
	rec.Unrecognized = len(unrecognized)

	log.Info("document curated",
		"path", out.Path,
		"pages", res.Pages,
		"identifiers", res.Identifiers,
		"pruned", out.Report.Pruned,
		"bytes", out.Bytes,
	)
	final, finalPhase = StatusCompleted, "done"
}
