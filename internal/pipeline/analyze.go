package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docsight/docsight/internal/config"
	"github.com/docsight/docsight/internal/layout"
	"github.com/docsight/docsight/internal/outline"
	"github.com/docsight/docsight/internal/parser"
	"github.com/docsight/docsight/internal/persona"
	"github.com/docsight/docsight/internal/relevance"
	"github.com/docsight/docsight/internal/section"
	"github.com/docsight/docsight/internal/stats"
)

// Pipeline stage names used for latency tracking.
const (
	StageParsing   = "parsing"
	StageOutline   = "outline"
	StageScoring   = "scoring"
	StageSelecting = "selecting"
)

// OutlineResult is the structure-extraction output contract for one document.
type OutlineResult struct {
	Title   string          `json:"title"`
	Outline []outline.Entry `json:"outline"`
}

// Metadata echoes the analysis inputs alongside the processing timestamp.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked entry in the analysis output.
type ExtractedSection struct {
	Document       string `json:"document"`
	PageNumber     int    `json:"page_number"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
}

// SubSectionAnalysis carries the refined excerpt for one ranked section.
type SubSectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// AnalysisResult is the full persona-driven analysis output contract.
type AnalysisResult struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubSectionAnalysis []SubSectionAnalysis `json:"sub_section_analysis"`
}

// DocumentStructure is the parsed and classified form of one document.
type DocumentStructure struct {
	Doc      *layout.Document
	Outline  outline.Result
	Sections []*section.Section
}

// Options carry all analysis tunables plus the shared observability handles.
// Logger and Stats may be nil.
type Options struct {
	Policy      outline.Policy
	Score       relevance.ScoreOptions
	Select      relevance.SelectOptions
	Concurrency int

	Logger *slog.Logger
	Stats  *stats.Registry
}

// DefaultOptions returns baseline analysis settings.
func DefaultOptions() Options {
	return Options{
		Policy:      outline.DefaultPolicy(),
		Score:       relevance.DefaultScoreOptions(),
		Select:      relevance.DefaultSelectOptions(),
		Concurrency: 5,
	}
}

// OptionsFromConfig maps service configuration onto analysis options.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	opts.Policy.MaxHeadings = cfg.MaxHeadings
	opts.Policy.MaxHeadingsPerPage = cfg.MaxHeadingsPerPage
	opts.Policy.MinTitleScore = cfg.MinTitleScore
	opts.Policy.MinConfidence = cfg.MinConfidence
	opts.Score.MinSectionWords = cfg.MinSectionWords
	opts.Select.TopK = cfg.TopK
	opts.Select.MaxPerDocument = cfg.MaxPerDocument
	opts.Select.MinScore = cfg.MinScore
	opts.Select.ExcerptMaxChars = cfg.ExcerptMaxChars
	opts.Concurrency = cfg.MaxConcurrentDocs
	return opts
}

// Hooks let the caller observe per-stage and per-document progress.
// Either field may be nil.
type Hooks struct {
	Stage    func(stage string)
	Document func(name string, err error)
	Scored   func(count int)
}

func (h Hooks) stage(s string) {
	if h.Stage != nil {
		h.Stage(s)
	}
}

func (h Hooks) scored(n int) {
	if h.Scored != nil {
		h.Scored(n)
	}
}

func (h Hooks) document(name string, err error) {
	if h.Document != nil {
		h.Document(name, err)
	}
}

// ExtractStructure parses one document and extracts its title, outline, and
// sections.
func ExtractStructure(name string, data []byte, pol outline.Policy) (*DocumentStructure, error) {
	p, err := parser.ForFile(name)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	res := outline.Extract(doc, pol)
	return &DocumentStructure{
		Doc:      doc,
		Outline:  res,
		Sections: section.Segment(doc, res.Levels),
	}, nil
}

// RunAnalysis executes the full pipeline over a collection: parallel
// parse+classify fan-out, persona analysis, relevance scoring, and
// diversity-aware selection. A failed document is skipped and reported
// through hooks; it never aborts the rest of the collection. The returned
// result always has non-nil slices.
func RunAnalysis(ctx context.Context, files []InputFile, personaText, jobText string, opts Options, hooks Hooks) AnalysisResult {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	result := AnalysisResult{
		Metadata: Metadata{
			InputDocuments:      make([]string, 0, len(files)),
			Persona:             personaText,
			JobToBeDone:         jobText,
			ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
		ExtractedSections:  []ExtractedSection{},
		SubSectionAnalysis: []SubSectionAnalysis{},
	}
	for _, f := range files {
		result.Metadata.InputDocuments = append(result.Metadata.InputDocuments, f.Name)
	}

	// Parse and classify documents in parallel, bounded by a semaphore.
	hooks.stage(StageParsing)
	parseStart := time.Now()

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	structures := make([]*DocumentStructure, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(idx int, file InputFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			ds, err := ExtractStructure(file.Name, file.Data, opts.Policy)
			if err != nil {
				log.Warn("document skipped", "document", file.Name, "error", err)
				hooks.document(file.Name, err)
				return
			}
			structures[idx] = ds
			hooks.document(file.Name, nil)
			log.Debug("document structured",
				"document", file.Name,
				"headings", len(ds.Outline.Headings),
				"sections", len(ds.Sections),
				"duration_ms", time.Since(start).Milliseconds())
		}(i, f)
	}
	wg.Wait()
	if opts.Stats != nil {
		opts.Stats.Observe(StageParsing, parseStart)
	}

	// Collect sections in collection order so tie-breaks are deterministic.
	var sections []*section.Section
	for docOrder, ds := range structures {
		if ds == nil {
			continue
		}
		for _, s := range ds.Sections {
			s.DocOrder = docOrder
			sections = append(sections, s)
		}
	}

	hooks.stage(StageScoring)
	scoreStart := time.Now()
	profile := persona.Analyze(personaText, jobText)
	scored := relevance.Score(sections, profile, opts.Score)
	hooks.scored(len(scored))
	if opts.Stats != nil {
		opts.Stats.Observe(StageScoring, scoreStart)
	}

	hooks.stage(StageSelecting)
	selectStart := time.Now()
	ranked := relevance.Select(scored, opts.Select)
	if opts.Stats != nil {
		opts.Stats.Observe(StageSelecting, selectStart)
	}

	for _, r := range ranked {
		result.ExtractedSections = append(result.ExtractedSections, ExtractedSection{
			Document:       r.Document,
			PageNumber:     r.Page,
			SectionTitle:   r.Heading,
			ImportanceRank: r.Rank,
		})
		result.SubSectionAnalysis = append(result.SubSectionAnalysis, SubSectionAnalysis{
			Document:    r.Document,
			RefinedText: r.RefinedText,
			PageNumber:  r.Page,
		})
	}

	log.Info("analysis complete",
		"documents", len(files),
		"sections_scored", len(scored),
		"sections_selected", len(ranked),
		"persona_type", profile.Type)
	return result
}
