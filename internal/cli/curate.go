package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/teigest/internal/assemble"
	"github.com/dgallion1/teigest/internal/config"
	"github.com/dgallion1/teigest/internal/corpus"
	"github.com/dgallion1/teigest/internal/parser"
	"github.com/dgallion1/teigest/internal/pipeline"
	"github.com/dgallion1/teigest/internal/stats"
)

// ErrIncomplete is returned when at least one document was not written.
var ErrIncomplete = errors.New("some documents were not curated")

var curateCmd = &cobra.Command{
	Use:   "curate [sources...]",
	Short: "Curate documents into TEI files",
	Long: `Curate parses OCR output, assembles TEI documents and writes them.

Without arguments the documents are discovered in the source locations of
the corpus config for --format and narrowed by the filter flags. With
arguments, each argument is a source file; page files named {doc}-{page}
are grouped into the document {doc} in the order given.

Each file is written to a temporary file, verified by a round trip and
then moved into place. A document whose bytes do not survive the round
trip is reported as invalid and its destination is left untouched.

Examples:
  # Curate every 1877-1878 ALTO document of the default corpus
  teigest curate -m 1877-1878

  # Curate two noble estate protocols from PDF into ./out
  teigest curate -f pdf -k adeln -s 1880 -e 1885 -o ./out

  # Curate explicit page files
  teigest curate -o ./out prot_1882_adeln_003-1.xml prot_1882_adeln_003-2.xml`,
	RunE: runCurate,
}

var curateFlags struct {
	filter  filterFlagValues
	output  string
	workers int
}

func init() {
	rootCmd.AddCommand(curateCmd)
	addFilterFlags(curateCmd, &curateFlags.filter)
	curateCmd.Flags().StringVarP(&curateFlags.output, "output", "o", "",
		"Write to {output}/{collection}/{year}/ instead of the corpus TEI location")
	curateCmd.Flags().IntVarP(&curateFlags.workers, "workers", "w", 0,
		"Documents processed in parallel (default: $WORKER_COUNT)")
}

func runCurate(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if curateFlags.output != "" {
		cfg.OutputDir = curateFlags.output
	}
	if curateFlags.workers > 0 {
		cfg.WorkerCount = curateFlags.workers
	}

	var docs []corpus.Document
	if len(args) > 0 {
		docs = groupSources(args)
	} else if docs, err = discover(cfg, curateFlags.filter); err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no documents found")
		return nil
	}

	output, err := config.ResolveOutput(cfg)
	if err != nil {
		return fmt.Errorf("resolve output location: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs, err := curate(ctx, cfg, output, docs, log)
	if err != nil {
		return err
	}

	counts := map[pipeline.JobStatus]int{}
	for _, job := range jobs {
		snap := job.Snapshot()
		counts[snap.Status]++
		if snap.Status != pipeline.StatusCompleted {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s %v\n", snap.Document, snap.Status, snap.Progress.Errors)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "curated %d documents: %d completed, %d failed, %d invalid\n",
		len(jobs), counts[pipeline.StatusCompleted], counts[pipeline.StatusFailed], counts[pipeline.StatusInvalid])

	if counts[pipeline.StatusCompleted] != len(jobs) {
		return ErrIncomplete
	}
	return nil
}

// curate runs docs through a worker pool and returns their jobs once every
// job has finished. Sources are read as jobs are queued, so at most the
// queue's worth of documents is held in memory.
func curate(ctx context.Context, cfg config.Config, output pipeline.OutputResolver, docs []corpus.Document, log *slog.Logger) ([]*pipeline.Job, error) {
	orch := pipeline.NewOrchestrator(pipeline.Options{
		Workers:   cfg.WorkerCount,
		QueueSize: cfg.WorkerCount,
		JobTTL:    cfg.JobTTL,
		Worker: pipeline.WorkerOptions{
			Assemble: assemble.Options{FacsBaseURL: cfg.FacsBaseURL},
			Parse:    parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
			Timeout:  cfg.DocumentTimeout,
		},
	}, output, stats.NewCollector(24*time.Hour), log)
	orch.Start(ctx)

	jobs := make([]*pipeline.Job, 0, len(docs))
	for _, doc := range docs {
		srcs, err := parser.ReadSources(doc.Sources)
		job := pipeline.NewJob(doc.Name, srcs)
		jobs = append(jobs, job)
		if err != nil {
			log.Error("read sources", "document", doc.Name, "error", err)
			job.AddError(err.Error())
			job.SetStatus(pipeline.StatusFailed, "reading")
			continue
		}
		if err := orch.SubmitWait(ctx, job); err != nil {
			orch.Stop()
			return nil, fmt.Errorf("submit %s: %w", doc.Name, err)
		}
	}
	orch.Close()

	snap := orch.Stats().Snapshot()
	log.Info("curation finished",
		"documents", snap.Documents,
		"identifiers", snap.Identifiers,
		"pruned", snap.Pruned,
		"unrecognized", snap.Unrecognized,
		"p95_ms", snap.Latency.P95Ms,
	)
	return jobs, nil
}

// groupSources turns explicit source paths into documents, keeping the
// order of first appearance.
func groupSources(paths []string) []corpus.Document {
	var docs []corpus.Document
	index := map[string]int{}
	for _, p := range paths {
		name := corpus.DocumentName(p)
		i, ok := index[name]
		if !ok {
			i = len(docs)
			index[name] = i
			docs = append(docs, corpus.Document{Name: name})
		}
		docs[i].Sources = append(docs[i].Sources, p)
	}
	return docs
}
