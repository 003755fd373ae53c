package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

const snapshotLimitOpportunity = 500

// trendWeights scales the blue-ocean score by trend direction
var trendWeights = map[string]float64{
	contracts.DirectionRising:  1.5,
	contracts.DirectionStable:  1.0,
	contracts.DirectionFalling: 0.5,
}

// contentType 추천 임계값
const (
	blogGapThreshold    = 1000   // 이보다 블로그 결과수가 적으면 콘텐츠 공백
	blogDemandThreshold = 10000  // 공백 추천에 필요한 최소 검색량
	massDemandThreshold = 100000 // 영상 추천 기준 검색량
)

// Opportunity merges blue-ocean scoring with trend detection into one ranked
// score plus a content-type recommendation. 한 사이클의 오케스트레이션 진입점:
// blue-ocean과 trending을 직접 다시 수행한 값(스냅샷 읽기가 아님)을 조인한다.
type Opportunity struct {
	blueOcean  *BlueOcean
	trending   *Trending
	results    contracts.ResultStore
	windowDays int
	now        func() time.Time
	log        zerolog.Logger
}

// NewOpportunity creates a new opportunity analyzer
func NewOpportunity(blueOcean *BlueOcean, trending *Trending, results contracts.ResultStore, windowDays int, log zerolog.Logger) *Opportunity {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Opportunity{
		blueOcean:  blueOcean,
		trending:   trending,
		results:    results,
		windowDays: windowDays,
		now:        time.Now,
		log:        log.With().Str("component", "analysis.opportunity").Logger(),
	}
}

// Analyze runs blue-ocean and trending in full, joins them by keyword, and
// persists the top rows as one opportunity generation.
func (a *Opportunity) Analyze(ctx context.Context) ([]contracts.OpportunityResult, error) {
	blueOceanResults, err := a.blueOcean.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("blue ocean stage: %w", err)
	}

	trendingResults, err := a.trending.Analyze(ctx, a.windowDays)
	if err != nil {
		return nil, fmt.Errorf("trending stage: %w", err)
	}

	trendByKeyword := make(map[string]contracts.TrendingResult, len(trendingResults))
	for _, t := range trendingResults {
		trendByKeyword[t.Keyword] = t
	}

	results := make([]contracts.OpportunityResult, 0, len(blueOceanResults))
	for _, bo := range blueOceanResults {
		// 트렌드 정보가 없는 키워드는 stable로 간주 (left join)
		dir := contracts.DirectionStable
		if t, ok := trendByKeyword[bo.Keyword]; ok {
			dir = t.Direction
		}

		weight, ok := trendWeights[dir]
		if !ok {
			weight = 1.0
		}

		contentType, reason := recommend(bo)
		if dir == contracts.DirectionRising {
			reason += " / 📈 상승 트렌드"
		}

		results = append(results, contracts.OpportunityResult{
			Keyword:              bo.Keyword,
			BlueOceanScore:       bo.BlueOceanScore,
			TrendDirection:       dir,
			OpportunityScore:     round2(bo.BlueOceanScore * weight),
			SuggestedContentType: contentType,
			Reason:               reason,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OpportunityScore > results[j].OpportunityScore
	})

	if err := a.persist(ctx, results); err != nil {
		return nil, err
	}

	a.log.Info().
		Int("keywords", len(results)).
		Msg("opportunity analysis completed")
	return results, nil
}

// recommend picks a content type for the keyword, in precedence order:
// 콘텐츠 공백 + 수요 → blog, 대량 검색 → youtube, 그 외 → both.
func recommend(bo contracts.BlueOceanResult) (string, string) {
	switch {
	case bo.BlogCount < blogGapThreshold && bo.SearchVolume > blogDemandThreshold:
		return contracts.ContentTypeBlog,
			fmt.Sprintf("블로그 콘텐츠 부족 (%d건), 검색량 높음 (%s)", bo.BlogCount, comma(bo.SearchVolume))
	case bo.SearchVolume > massDemandThreshold:
		return contracts.ContentTypeYoutube,
			fmt.Sprintf("대량 검색 키워드, 영상 콘텐츠 유리 (월 %s회)", comma(bo.SearchVolume))
	default:
		return contracts.ContentTypeBoth,
			fmt.Sprintf("경쟁도 %s, 검색량 %s", bo.Competition, comma(bo.SearchVolume))
	}
}

func (a *Opportunity) persist(ctx context.Context, results []contracts.OpportunityResult) error {
	analyzedAt := a.now().UTC()

	limit := len(results)
	if limit > snapshotLimitOpportunity {
		limit = snapshotLimitOpportunity
	}

	rows := make([]contracts.AnalysisRow, 0, limit)
	for _, r := range results[:limit] {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal opportunity result: %w", err)
		}
		rows = append(rows, contracts.AnalysisRow{
			Keyword:    r.Keyword,
			Score:      r.OpportunityScore,
			Payload:    payload,
			AnalyzedAt: analyzedAt,
		})
	}

	if err := a.results.AppendGeneration(ctx, contracts.AnalysisOpportunity, analyzedAt, rows); err != nil {
		return fmt.Errorf("persist opportunity snapshot: %w", err)
	}
	return nil
}
