package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/teigest/internal/parser"
)

// JobStatus represents the state of a curation job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusAssembling JobStatus = "assembling"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusInvalid    JobStatus = "invalid" // written bytes did not survive a round trip
)

// Terminal reports whether no further transitions follow.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusInvalid
}

// Job tracks the curation of a single document.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Document string `json:"document"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	OutputPath  string    `json:"output_path,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	LatencyMs   int64     `json:"latency_ms"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	sources  []parser.Source
	errors   []string
	done     chan struct{}
	doneOnce sync.Once
}

// Progress tracks what processing produced so far.
type Progress struct {
	Sources      int      `json:"sources"`
	Pages        int      `json:"pages"`
	Identifiers  int      `json:"identifiers"`
	Pruned       int      `json:"pruned"`
	Unrecognized []string `json:"unrecognized"`
	Errors       []string `json:"errors"`
}

// NewJob creates a queued job for the document named by its filename stem.
func NewJob(document string, sources []parser.Source) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Document:  document,
		Status:    StatusQueued,
		Phase:     "queued",
		Progress:  Progress{Sources: len(sources)},
		CreatedAt: now,
		UpdatedAt: now,
		sources:   sources,
		done:      make(chan struct{}),
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes finished jobs that have not changed within the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically. Entering a terminal status
// releases anyone waiting on Done.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	j.mu.Unlock()

	if status.Terminal() {
		j.doneOnce.Do(func() {
			if j.done != nil {
				close(j.done)
			}
		})
	}
}

// Done is closed once the job reaches a terminal status.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetAssembled records the shape of the assembled document.
func (j *Job) SetAssembled(pages, identifiers int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Pages = pages
	j.Progress.Identifiers = identifiers
	j.UpdatedAt = time.Now()
}

// SetWritten records the written artifact and the canonicalization
// diagnostics.
func (j *Job) SetWritten(path, hash string, pruned int, unrecognized []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.OutputPath = path
	j.ContentHash = hash
	j.Progress.Pruned = pruned
	j.Progress.Unrecognized = unrecognized
	j.UpdatedAt = time.Now()
}

// SetLatency records the total processing time.
func (j *Job) SetLatency(d time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.LatencyMs = d.Milliseconds()
}

// Sources returns the input files of the job.
func (j *Job) Sources() []parser.Source {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.sources
}

// releaseSources drops the input bytes once they are no longer needed.
func (j *Job) releaseSources() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sources = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Document    string    `json:"document"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
	OutputPath  string    `json:"output_path,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	LatencyMs   int64     `json:"latency_ms"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	unrec := append([]string{}, j.Progress.Unrecognized...)
	p := j.Progress
	p.Errors = errs
	p.Unrecognized = unrec
	return JobSnapshot{
		ID:          j.ID,
		Document:    j.Document,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress:    p,
		OutputPath:  j.OutputPath,
		ContentHash: j.ContentHash,
		LatencyMs:   j.LatencyMs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
