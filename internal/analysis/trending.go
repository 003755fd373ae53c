package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

const (
	snapshotLimitTrending = 200

	// DefaultWindowDays is the default length of each comparison window
	DefaultWindowDays = 7

	risingThreshold  = 1.2
	fallingThreshold = 0.8

	// 보조 소스(검색결과수)에서 ±10% 미만 변화는 잡음으로 버린다
	volumeNoiseBand = 0.1
)

// Trending detects rising/falling keywords by comparing two back-to-back
// windows of the search-trend ratio series, with blog result counts as a
// secondary signal for keywords the primary source misses.
type Trending struct {
	trends  contracts.TrendReader
	volumes contracts.VolumeReader
	results contracts.ResultStore
	now     func() time.Time
	log     zerolog.Logger
}

// NewTrending creates a new trending analyzer
func NewTrending(trends contracts.TrendReader, volumes contracts.VolumeReader, results contracts.ResultStore, log zerolog.Logger) *Trending {
	return &Trending{
		trends:  trends,
		volumes: volumes,
		results: results,
		now:     time.Now,
		log:     log.With().Str("component", "analysis.trending").Logger(),
	}
}

// direction classifies a raw change rate. 경계값은 정확히 포함이다:
// 1.2 → rising, 0.8 → falling.
func direction(rate float64) string {
	switch {
	case rate >= risingThreshold:
		return contracts.DirectionRising
	case rate <= fallingThreshold:
		return contracts.DirectionFalling
	default:
		return contracts.DirectionStable
	}
}

// Analyze computes trend directions and persists the top movers as one
// trending generation (score = changeRate).
func (a *Trending) Analyze(ctx context.Context, days int) ([]contracts.TrendingResult, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	windows, err := a.trends.WindowAverages(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("load trend windows: %w", err)
	}

	changes, err := a.volumes.VolumeChanges(ctx, contracts.SearchTypeBlog)
	if err != nil {
		return nil, fmt.Errorf("load volume changes: %w", err)
	}

	results := merge(windows, changes)

	if err := a.persist(ctx, results); err != nil {
		return nil, err
	}

	rising, falling := 0, 0
	for _, r := range results {
		switch r.Direction {
		case contracts.DirectionRising:
			rising++
		case contracts.DirectionFalling:
			falling++
		}
	}
	a.log.Info().
		Int("keywords", len(results)).
		Int("rising", rising).
		Int("falling", falling).
		Msg("trending analysis completed")

	return results, nil
}

// merge combines the primary (ratio-series windows) and secondary (result
// counts) sources. 보조 소스는 기본 소스에 없는 키워드만 보탠다 (합집합이
// 아니라 차집합 병합).
func merge(windows []contracts.TrendWindow, changes []contracts.VolumeChange) []contracts.TrendingResult {
	var results []contracts.TrendingResult

	seen := make(map[string]struct{}, len(windows))
	for _, w := range windows {
		rate := w.CurrentAvg / w.PreviousAvg
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		seen[w.KeywordGroup] = struct{}{}
		results = append(results, contracts.TrendingResult{
			Keyword:     w.KeywordGroup,
			CurrentAvg:  round2(w.CurrentAvg),
			PreviousAvg: round2(w.PreviousAvg),
			ChangeRate:  round2(rate),
			Direction:   direction(rate),
		})
	}

	for _, c := range changes {
		if _, ok := seen[c.Keyword]; ok {
			continue
		}
		rate := float64(c.Current) / float64(c.Previous)
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		if math.Abs(rate-1) < volumeNoiseBand {
			continue
		}
		results = append(results, contracts.TrendingResult{
			Keyword:     c.Keyword,
			CurrentAvg:  float64(c.Current),
			PreviousAvg: float64(c.Previous),
			ChangeRate:  round2(rate),
			Direction:   direction(rate),
		})
	}

	// 변화폭이 큰 순서 (소스 무관)
	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].ChangeRate-1) > math.Abs(results[j].ChangeRate-1)
	})
	return results
}

func (a *Trending) persist(ctx context.Context, results []contracts.TrendingResult) error {
	analyzedAt := a.now().UTC()

	limit := len(results)
	if limit > snapshotLimitTrending {
		limit = snapshotLimitTrending
	}

	rows := make([]contracts.AnalysisRow, 0, limit)
	for _, r := range results[:limit] {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal trending result: %w", err)
		}
		rows = append(rows, contracts.AnalysisRow{
			Keyword:    r.Keyword,
			Score:      r.ChangeRate,
			Payload:    payload,
			AnalyzedAt: analyzedAt,
		})
	}

	if err := a.results.AppendGeneration(ctx, contracts.AnalysisTrending, analyzedAt, rows); err != nil {
		return fmt.Errorf("persist trending snapshot: %w", err)
	}
	return nil
}
