package pipeline

import (
	"context"
	"fmt"

	"github.com/Risho92/rufus/internal/crawler"
	"github.com/Risho92/rufus/internal/model"
	"github.com/Risho92/rufus/internal/planner"
	"github.com/Risho92/rufus/internal/report"
	"github.com/Risho92/rufus/internal/synthesizer"
)

// PlanStep builds the crawl strategy from the session's instructions.
// Planning never fails; with no instructions the default strategy is used.
type PlanStep struct {
	builder *planner.Builder
}

// NewPlanStep creates a PlanStep.
func NewPlanStep(builder *planner.Builder) *PlanStep {
	return &PlanStep{builder: builder}
}

// Name implements Step.
func (s *PlanStep) Name() string { return "plan" }

// Do implements Step.
func (s *PlanStep) Do(ctx context.Context, session *model.CrawlSession) error {
	session.Strategy = s.builder.Build(ctx, session.StartURL, session.Instructions)
	return nil
}

// CrawlStep visits pages from the session's start URL and records the
// accepted results.
type CrawlStep struct {
	controller *crawler.Controller
}

// NewCrawlStep creates a CrawlStep.
func NewCrawlStep(controller *crawler.Controller) *CrawlStep {
	return &CrawlStep{controller: controller}
}

// Name implements Step.
func (s *CrawlStep) Name() string { return "crawl" }

// Do implements Step. The session keeps only accepted pages; the visited
// count still reflects every URL the crawl touched.
func (s *CrawlStep) Do(ctx context.Context, session *model.CrawlSession) error {
	strategy := session.Strategy
	if strategy == nil {
		strategy = model.NewCrawlStrategy()
	}

	results, err := s.controller.Crawl(ctx, session.StartURL, strategy)

	session.VisitedCount = s.controller.VisitedCount()
	for _, r := range results {
		if r.Accepted() {
			session.Results = append(session.Results, r)
		}
	}

	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	return nil
}

// SynthesizeStep condenses the session's accepted pages into documents.
type SynthesizeStep struct {
	synthesizer *synthesizer.Synthesizer
}

// NewSynthesizeStep creates a SynthesizeStep.
func NewSynthesizeStep(s *synthesizer.Synthesizer) *SynthesizeStep {
	return &SynthesizeStep{synthesizer: s}
}

// Name implements Step.
func (s *SynthesizeStep) Name() string { return "synthesize" }

// Do implements Step.
func (s *SynthesizeStep) Do(ctx context.Context, session *model.CrawlSession) error {
	documents, err := s.synthesizer.Synthesize(ctx, session.Results, session.Instructions)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}
	session.Documents = documents
	return nil
}

// SaveStep persists the session's documents to disk.
type SaveStep struct {
	format   string
	baseName string
}

// NewSaveStep creates a SaveStep writing in the given format under the
// given base file name.
func NewSaveStep(format, baseName string) *SaveStep {
	return &SaveStep{format: format, baseName: baseName}
}

// Name implements Step.
func (s *SaveStep) Name() string { return "save" }

// Do implements Step. An empty document list is still saved so every run
// leaves an output file.
func (s *SaveStep) Do(_ context.Context, session *model.CrawlSession) error {
	path, err := report.SaveDocuments(session.Documents, s.format, s.baseName)
	if err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	session.OutputPath = path
	return nil
}
