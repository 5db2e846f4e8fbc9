package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

const reportMD = `# Quarterly Report

## Financial Results

Revenue grew 24% to 4.2 million in the quarter with average growth of 12% and a profit ratio of 0.31 across all segments.

## Methodology

The figures were compiled from audited ledgers using the standard consolidation procedure applied in every reporting period.
`

const primerMD = `# Beginner Primer

## Introduction

This introduction explains the basic concept gently with simple examples and short definitions so no prior knowledge is needed at all.

## Core Concepts

Each core concept builds on the previous definition and the framework is presented one principle at a time for easy reading.
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFiles() []InputFile {
	return []InputFile{
		{Name: "report.md", Data: []byte(reportMD)},
		{Name: "primer.md", Data: []byte(primerMD)},
	}
}

func TestExtractStructure_TitleAndSections(t *testing.T) {
	opts := DefaultOptions()
	ds, err := ExtractStructure("report.md", []byte(reportMD), opts.Policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ds.Outline.Title != "Quarterly Report" {
		t.Errorf("expected title %q, got %q", "Quarterly Report", ds.Outline.Title)
	}
	if len(ds.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(ds.Sections))
	}
	if ds.Sections[0].Heading != "Financial Results" {
		t.Errorf("unexpected first section heading %q", ds.Sections[0].Heading)
	}
	if ds.Sections[1].Heading != "Methodology" {
		t.Errorf("unexpected second section heading %q", ds.Sections[1].Heading)
	}
}

func TestExtractStructure_UnsupportedExtension(t *testing.T) {
	opts := DefaultOptions()
	if _, err := ExtractStructure("data.xyz", []byte("x"), opts.Policy); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestRunAnalysis_FullPipeline(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = discardLogger()

	result := RunAnalysis(context.Background(), testFiles(),
		"Investment Analyst at a bank", "analyze revenue and profit trends",
		opts, Hooks{})

	if len(result.Metadata.InputDocuments) != 2 {
		t.Fatalf("expected 2 input documents, got %d", len(result.Metadata.InputDocuments))
	}
	if result.Metadata.Persona != "Investment Analyst at a bank" {
		t.Errorf("unexpected persona echo %q", result.Metadata.Persona)
	}
	if _, err := time.Parse(time.RFC3339, result.Metadata.ProcessingTimestamp); err != nil {
		t.Errorf("timestamp not RFC3339: %v", err)
	}

	if len(result.ExtractedSections) == 0 {
		t.Fatal("expected selected sections")
	}
	if len(result.SubSectionAnalysis) != len(result.ExtractedSections) {
		t.Errorf("expected aligned analysis entries, got %d vs %d",
			len(result.SubSectionAnalysis), len(result.ExtractedSections))
	}

	for i, es := range result.ExtractedSections {
		if es.ImportanceRank != i+1 {
			t.Errorf("expected dense rank %d, got %d", i+1, es.ImportanceRank)
		}
		if es.Document != "report.md" && es.Document != "primer.md" {
			t.Errorf("unexpected document %q", es.Document)
		}
		if es.SectionTitle == "" {
			t.Errorf("entry %d has empty section title", i)
		}
		if result.SubSectionAnalysis[i].RefinedText == "" {
			t.Errorf("entry %d has empty refined text", i)
		}
		if result.SubSectionAnalysis[i].Document != es.Document {
			t.Errorf("entry %d document mismatch", i)
		}
	}

	// The analyst persona puts the financial section first.
	if result.ExtractedSections[0].SectionTitle != "Financial Results" {
		t.Errorf("expected financial section ranked first for analyst, got %q",
			result.ExtractedSections[0].SectionTitle)
	}
}

func TestRunAnalysis_PersonaChangesTopSection(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = discardLogger()

	student := RunAnalysis(context.Background(), testFiles(),
		"Undergraduate student", "learn the basic concept for an exam",
		opts, Hooks{})

	if len(student.ExtractedSections) == 0 {
		t.Fatal("expected selected sections")
	}
	top := student.ExtractedSections[0]
	if top.Document != "primer.md" {
		t.Errorf("expected student's top section from the primer, got %q (%q)",
			top.Document, top.SectionTitle)
	}
}

func TestRunAnalysis_FailedDocumentIsIsolated(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = discardLogger()

	files := append(testFiles(), InputFile{Name: "broken.xyz", Data: []byte("noise")})

	var failed []string
	hooks := Hooks{
		Document: func(name string, err error) {
			if err != nil {
				failed = append(failed, name)
			}
		},
	}
	result := RunAnalysis(context.Background(), files,
		"Investment Analyst", "analyze revenue", opts, hooks)

	if len(failed) != 1 || failed[0] != "broken.xyz" {
		t.Errorf("expected broken.xyz to be reported, got %v", failed)
	}
	if len(result.Metadata.InputDocuments) != 3 {
		t.Errorf("metadata lists all inputs, got %d", len(result.Metadata.InputDocuments))
	}
	if len(result.ExtractedSections) == 0 {
		t.Error("expected sections from the healthy documents")
	}
	for _, es := range result.ExtractedSections {
		if es.Document == "broken.xyz" {
			t.Error("failed document must not contribute sections")
		}
	}
}

func TestRunAnalysis_EmptyCollection(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = discardLogger()

	result := RunAnalysis(context.Background(), nil, "", "", opts, Hooks{})

	if result.ExtractedSections == nil || result.SubSectionAnalysis == nil {
		t.Error("expected non-nil empty slices")
	}
	if len(result.ExtractedSections) != 0 {
		t.Errorf("expected no sections, got %d", len(result.ExtractedSections))
	}
}

func TestWorker_ProcessCompletes(t *testing.T) {
	opts := DefaultOptions()
	w := NewWorker(opts, discardLogger())

	job := &Job{ID: "w1", Status: StatusQueued, UpdatedAt: time.Now()}
	job.SetFiles(testFiles())

	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Errorf("expected completed, got %q", job.Status)
	}
	if job.Result() == nil {
		t.Fatal("expected a result")
	}
	snap := job.Snapshot()
	if snap.Progress.DocumentsProcessed != 2 {
		t.Errorf("expected 2 documents processed, got %d", snap.Progress.DocumentsProcessed)
	}
	if snap.Progress.SectionsSelected != len(job.Result().ExtractedSections) {
		t.Errorf("selected count mismatch: %d vs %d",
			snap.Progress.SectionsSelected, len(job.Result().ExtractedSections))
	}
}

func TestWorker_ProcessPartialOnBadDocument(t *testing.T) {
	opts := DefaultOptions()
	w := NewWorker(opts, discardLogger())

	job := &Job{ID: "w2", Status: StatusQueued, UpdatedAt: time.Now()}
	job.SetFiles(append(testFiles(), InputFile{Name: "broken.xyz", Data: []byte("x")}))

	w.Process(context.Background(), job)

	if job.Status != StatusPartial {
		t.Errorf("expected partial, got %q", job.Status)
	}
	if job.ErrorCount() != 1 {
		t.Errorf("expected 1 error, got %d", job.ErrorCount())
	}
}

func TestWorker_ProcessFailsWhenNothingParses(t *testing.T) {
	opts := DefaultOptions()
	w := NewWorker(opts, discardLogger())

	job := &Job{ID: "w3", Status: StatusQueued, UpdatedAt: time.Now()}
	job.SetFiles([]InputFile{{Name: "a.xyz", Data: []byte("x")}, {Name: "b.xyz", Data: []byte("y")}})

	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("expected failed, got %q", job.Status)
	}
}

func TestWorker_ProcessFailsOnEmptyJob(t *testing.T) {
	opts := DefaultOptions()
	w := NewWorker(opts, discardLogger())

	job := &Job{ID: "w4", Status: StatusQueued, UpdatedAt: time.Now()}
	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Errorf("expected failed for empty job, got %q", job.Status)
	}
}
