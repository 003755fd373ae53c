package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// RunReport summarizes one full scoring cycle
type RunReport struct {
	PurgedRows    int64
	Opportunities []contracts.OpportunityResult
	Verdicts      []contracts.VerdictResult
}

// Pipeline chains the full scoring cycle: retention purge, then opportunity
// (which itself runs blue-ocean and trending), then verdict.
// 단계는 순차 실행이며 실패한 단계에서 즉시 중단한다 — 재시도 없음.
type Pipeline struct {
	opportunity   *Opportunity
	verdict       *Verdict
	results       contracts.ResultStore
	retentionDays int
	log           zerolog.Logger
}

// NewPipeline creates a new analysis pipeline
func NewPipeline(opportunity *Opportunity, verdict *Verdict, results contracts.ResultStore, retentionDays int, log zerolog.Logger) *Pipeline {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &Pipeline{
		opportunity:   opportunity,
		verdict:       verdict,
		results:       results,
		retentionDays: retentionDays,
		log:           log.With().Str("component", "analysis.pipeline").Logger(),
	}
}

// Run executes one full cycle and returns its report
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	purged, err := p.results.PurgeOlderThan(ctx, p.retentionDays)
	if err != nil {
		return nil, fmt.Errorf("purge old results: %w", err)
	}
	if purged > 0 {
		p.log.Info().Int64("rows", purged).Msg("purged expired analysis results")
	}

	opportunities, err := p.opportunity.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("opportunity stage: %w", err)
	}

	verdicts, err := p.verdict.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("verdict stage: %w", err)
	}

	p.log.Info().
		Int("opportunities", len(opportunities)).
		Int("verdicts", len(verdicts)).
		Msg("analysis cycle completed")

	return &RunReport{
		PurgedRows:    purged,
		Opportunities: opportunities,
		Verdicts:      verdicts,
	}, nil
}
