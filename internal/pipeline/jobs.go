package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a collection analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusScoring   JobStatus = "scoring"
	StatusSelecting JobStatus = "selecting"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// InputFile is one document of a collection, held in memory for processing.
type InputFile struct {
	Name string
	Data []byte
}

// Job tracks the state of a single collection analysis.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	PersonaText string `json:"persona"`
	JobText     string `json:"job_to_be_done"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []InputFile
	result *AnalysisResult
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments     int      `json:"total_documents"`
	DocumentsProcessed int      `json:"documents_processed"`
	SectionsScored     int      `json:"sections_scored"`
	SectionsSelected   int      `json:"sections_selected"`
	Errors             []string `json:"errors"`
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrDocumentsProcessed atomically increments the processed-document count.
func (j *Job) IncrDocumentsProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsProcessed++
	j.UpdatedAt = time.Now()
}

// SetCounts records total document and section counts.
func (j *Job) SetCounts(totalDocs, scored, selected int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if totalDocs >= 0 {
		j.Progress.TotalDocuments = totalDocs
	}
	if scored >= 0 {
		j.Progress.SectionsScored = scored
	}
	if selected >= 0 {
		j.Progress.SectionsSelected = selected
	}
	j.UpdatedAt = time.Now()
}

// SetFiles sets the collection's raw files for processing.
func (j *Job) SetFiles(files []InputFile) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = files
}

// Files returns the collection's raw files.
func (j *Job) Files() []InputFile {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// SetResult stores the finished analysis output.
func (j *Job) SetResult(r *AnalysisResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.UpdatedAt = time.Now()
}

// Result returns the finished analysis output, or nil if not done.
func (j *Job) Result() *AnalysisResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// ErrorCount returns how many per-document errors were recorded.
func (j *Job) ErrorCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.errors)
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalDocuments:     j.Progress.TotalDocuments,
			DocumentsProcessed: j.Progress.DocumentsProcessed,
			SectionsScored:     j.Progress.SectionsScored,
			SectionsSelected:   j.Progress.SectionsSelected,
			Errors:             errs,
		},
	}
}
