package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker processes a single collection analysis job.
type Worker struct {
	opts Options
	log  *slog.Logger
}

func NewWorker(opts Options, log *slog.Logger) *Worker {
	return &Worker{opts: opts, log: log}
}

// stageStatus maps pipeline stage names onto job statuses. The outline stage
// is part of the parse fan-out, so it reports as parsing.
func stageStatus(stage string) JobStatus {
	switch stage {
	case StageParsing, StageOutline:
		return StatusParsing
	case StageScoring:
		return StatusScoring
	case StageSelecting:
		return StatusSelecting
	default:
		return StatusParsing
	}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	files := job.Files()
	job.SetCounts(len(files), -1, -1)
	if len(files) == 0 {
		job.AddError("no input documents")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	opts := w.opts
	opts.Logger = log

	hooks := Hooks{
		Stage: func(stage string) {
			job.SetStatus(stageStatus(stage), stage)
		},
		Document: func(name string, err error) {
			job.IncrDocumentsProcessed()
			if err != nil {
				job.AddError(fmt.Sprintf("%s: %s", name, err))
			}
		},
		Scored: func(n int) {
			job.SetCounts(-1, n, -1)
		},
	}

	result := RunAnalysis(ctx, files, job.PersonaText, job.JobText, opts, hooks)
	job.SetResult(&result)
	job.SetCounts(-1, -1, len(result.ExtractedSections))

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "canceled")
		return
	}

	switch {
	case job.ErrorCount() >= len(files):
		// Every document failed; nothing was analyzed.
		job.SetStatus(StatusFailed, "done")
	case job.ErrorCount() > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}
