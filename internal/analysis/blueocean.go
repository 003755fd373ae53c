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

// 세대당 저장 상한
const snapshotLimitBlueOcean = 500

// competitionWeights maps the Naver comp_idx label to its scoring weight.
// 미보고('없음' 포함)는 1.0으로 취급한다.
var competitionWeights = map[string]float64{
	contracts.CompLow:    3.0,
	contracts.CompMedium: 1.5,
	contracts.CompHigh:   0.5,
}

// BlueOcean scores keywords by demand vs existing blog-content supply
type BlueOcean struct {
	stats   contracts.StatsReader
	volumes contracts.VolumeReader
	results contracts.ResultStore
	now     func() time.Time
	log     zerolog.Logger
}

// NewBlueOcean creates a new blue-ocean analyzer
func NewBlueOcean(stats contracts.StatsReader, volumes contracts.VolumeReader, results contracts.ResultStore, log zerolog.Logger) *BlueOcean {
	return &BlueOcean{
		stats:   stats,
		volumes: volumes,
		results: results,
		now:     time.Now,
		log:     log.With().Str("component", "analysis.blueocean").Logger(),
	}
}

// Analyze computes blue-ocean scores over the current signal snapshot and
// persists the top rows as one blue_ocean generation. 전체 결과(상한 없이)를
// 반환한다 — opportunity 단계가 전량을 소비한다.
func (a *BlueOcean) Analyze(ctx context.Context) ([]contracts.BlueOceanResult, error) {
	stats, err := a.load(ctx)
	if err != nil {
		return nil, err
	}

	blogCounts, err := a.volumes.LatestVolumes(ctx, contracts.SearchTypeBlog)
	if err != nil {
		return nil, fmt.Errorf("load blog volumes: %w", err)
	}

	results := score(stats, blogCounts)

	if err := a.persist(ctx, results); err != nil {
		return nil, err
	}

	a.log.Info().
		Int("keywords", len(results)).
		Msg("blue ocean analysis completed")
	return results, nil
}

// load picks the signal source. keyword_stats가 한 건도 없을 때만
// related_keywords 집계로 전면 전환한다 — 키워드 단위 병합은 하지 않는다
// (전부-아니면-전무 소스 스위치).
func (a *BlueOcean) load(ctx context.Context) ([]contracts.KeywordStats, error) {
	stats, err := a.stats.LatestKeywordStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load keyword stats: %w", err)
	}
	if len(stats) > 0 {
		return stats, nil
	}

	stats, err = a.stats.AggregatedRelatedKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load related keywords: %w", err)
	}
	if len(stats) > 0 {
		a.log.Debug().Int("keywords", len(stats)).Msg("falling back to related keywords")
	}
	return stats, nil
}

// score computes the blue-ocean score for every keyword.
//
// score = normalizedVolume * compWeight * min(opportunityRatio, 100) / 100
//   - normalizedVolume: 배치 내 최대 모바일 검색량 대비 0~100
//   - opportunityRatio: 검색량 / max(블로그 결과수, 1), 100으로 캡
//
// 동점 순위는 입력 순서(검색량 내림차순 쿼리 순서)를 유지하는 안정 정렬로
// 결정한다 — 이것이 랭킹 계약이다.
func score(stats []contracts.KeywordStats, blogCounts map[string]int64) []contracts.BlueOceanResult {
	maxMobile := int64(1)
	for _, s := range stats {
		if s.MonthlyMobileCount > maxMobile {
			maxMobile = s.MonthlyMobileCount
		}
	}

	results := make([]contracts.BlueOceanResult, 0, len(stats))
	for _, s := range stats {
		weight, ok := competitionWeights[s.CompIdx]
		if !ok {
			weight = 1.0
		}

		blogCount := blogCounts[s.Keyword]
		opportunityRatio := float64(s.MonthlyMobileCount) / math.Max(float64(blogCount), 1)
		normalizedVolume := float64(s.MonthlyMobileCount) / float64(maxMobile) * 100
		raw := normalizedVolume * weight * math.Min(opportunityRatio, 100) / 100

		competition := s.CompIdx
		if competition == "" {
			competition = contracts.CompNone
		}

		results = append(results, contracts.BlueOceanResult{
			Keyword:        s.Keyword,
			SearchVolume:   s.MonthlyMobileCount,
			BlogCount:      blogCount,
			Competition:    competition,
			BlueOceanScore: round2(raw),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].BlueOceanScore > results[j].BlueOceanScore
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

func (a *BlueOcean) persist(ctx context.Context, results []contracts.BlueOceanResult) error {
	analyzedAt := a.now().UTC()

	limit := len(results)
	if limit > snapshotLimitBlueOcean {
		limit = snapshotLimitBlueOcean
	}

	rows := make([]contracts.AnalysisRow, 0, limit)
	for _, r := range results[:limit] {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal blue ocean result: %w", err)
		}
		rows = append(rows, contracts.AnalysisRow{
			Keyword:    r.Keyword,
			Score:      r.BlueOceanScore,
			Payload:    payload,
			AnalyzedAt: analyzedAt,
		})
	}

	if err := a.results.AppendGeneration(ctx, contracts.AnalysisBlueOcean, analyzedAt, rows); err != nil {
		return fmt.Errorf("persist blue ocean snapshot: %w", err)
	}
	return nil
}
