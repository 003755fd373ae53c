package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// 판정 임계값
const (
	goScoreThreshold    = 70.0
	goVolumeThreshold   = 1000
	avoidScoreThreshold = 40.0
	avoidVolumeFloor    = 100

	// 상위 3위 가정 클릭 점유율
	assumedClickShare = 0.15

	// 블로그 경쟁이 이 수준 미만이면 진입 여지로 본다
	blogEntryGapThreshold = 5000
)

// Verdict classifies keywords into GO/CAUTION/AVOID with templated rationale.
// 이전 실행이 남긴 최신 blue_ocean/trending 스냅샷을 신뢰 경계로 읽는다 —
// 두 타입의 세대가 정확히 같은 실행일 필요는 없다 (허용된 windows).
type Verdict struct {
	results contracts.ResultStore
	stats   contracts.StatsReader
	volumes contracts.VolumeReader
	now     func() time.Time
	log     zerolog.Logger
}

// NewVerdict creates a new verdict analyzer
func NewVerdict(results contracts.ResultStore, stats contracts.StatsReader, volumes contracts.VolumeReader, log zerolog.Logger) *Verdict {
	return &Verdict{
		results: results,
		stats:   stats,
		volumes: volumes,
		now:     time.Now,
		log:     log.With().Str("component", "analysis.verdict").Logger(),
	}
}

// Analyze joins the latest blue_ocean generation with keyword stats, trend
// directions and blog result counts, and persists one verdict row per keyword
// (GO=3, CAUTION=2, AVOID=1; 상한 없이 전량 저장).
func (a *Verdict) Analyze(ctx context.Context) ([]contracts.VerdictResult, error) {
	analyzedAt := a.now().UTC()

	blueOceanRows, err := a.results.LatestRows(ctx, contracts.AnalysisBlueOcean)
	if err != nil {
		return nil, fmt.Errorf("load blue ocean snapshot: %w", err)
	}

	trendDirections, err := a.loadTrendDirections(ctx)
	if err != nil {
		return nil, err
	}

	statsByKeyword, err := a.loadStats(ctx)
	if err != nil {
		return nil, err
	}

	volumes, err := a.volumes.LatestVolumesByKeyword(ctx)
	if err != nil {
		return nil, fmt.Errorf("load search volumes: %w", err)
	}

	var results []contracts.VerdictResult
	skipped := 0
	for _, bo := range blueOceanRows {
		stats, ok := statsByKeyword[bo.Keyword]
		if !ok {
			// 근거 통계가 없는 키워드는 건너뛴다 (실패 아님)
			skipped++
			continue
		}
		if math.IsNaN(bo.Score) || math.IsInf(bo.Score, 0) {
			skipped++
			continue
		}

		blogCount := volumes[bo.Keyword][contracts.SearchTypeBlog]
		dir := trendDirections[bo.Keyword]
		if dir == "" {
			dir = contracts.DirectionStable
		}

		results = append(results, classify(bo.Keyword, bo.Score, stats, blogCount, dir, analyzedAt))
	}

	if err := a.persist(ctx, analyzedAt, results); err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, r := range results {
		counts[r.Verdict]++
	}
	a.log.Info().
		Int("keywords", len(results)).
		Int("skipped", skipped).
		Int("go", counts[contracts.VerdictGo]).
		Int("caution", counts[contracts.VerdictCaution]).
		Int("avoid", counts[contracts.VerdictAvoid]).
		Msg("verdict analysis completed")

	return results, nil
}

func (a *Verdict) loadTrendDirections(ctx context.Context) (map[string]string, error) {
	rows, err := a.results.LatestRows(ctx, contracts.AnalysisTrending)
	if err != nil {
		return nil, fmt.Errorf("load trending snapshot: %w", err)
	}

	directions := make(map[string]string, len(rows))
	for _, row := range rows {
		var t contracts.TrendingResult
		if err := json.Unmarshal(row.Payload, &t); err != nil {
			return nil, fmt.Errorf("decode trending payload for %q: %w", row.Keyword, err)
		}
		directions[row.Keyword] = t.Direction
	}
	return directions, nil
}

func (a *Verdict) loadStats(ctx context.Context) (map[string]contracts.KeywordStats, error) {
	stats, err := a.stats.LatestKeywordStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load keyword stats: %w", err)
	}

	byKeyword := make(map[string]contracts.KeywordStats, len(stats))
	for _, s := range stats {
		byKeyword[s.Keyword] = s
	}
	return byKeyword, nil
}

// classify derives the verdict and its three rationale texts. 문구는 입력의
// 결정적 함수다 — 쿼리 레이어와의 출력 호환 계약.
func classify(keyword string, blueOceanScore float64, stats contracts.KeywordStats, blogCount int64, trendDir string, analyzedAt time.Time) contracts.VerdictResult {
	monthlyTotal := stats.MonthlyTotal()
	monthlyClicks := stats.MonthlyClicks()

	compIdx := stats.CompIdx
	if compIdx == "" {
		compIdx = contracts.CompNone
	}

	mobileRatio := 0
	if monthlyTotal > 0 {
		mobileRatio = int(math.Round(float64(stats.MonthlyMobileCount) / float64(monthlyTotal) * 100))
	}

	var verdict string
	switch {
	case blueOceanScore >= goScoreThreshold && stats.IsLowCompetition() && monthlyTotal >= goVolumeThreshold:
		verdict = contracts.VerdictGo
	case blueOceanScore < avoidScoreThreshold || monthlyTotal < avoidVolumeFloor:
		verdict = contracts.VerdictAvoid
	default:
		verdict = contracts.VerdictCaution
	}

	estimatedTraffic := int64(math.Round(monthlyClicks * assumedClickShare))

	trendLabel := "안정"
	switch trendDir {
	case contracts.DirectionRising:
		trendLabel = "상승"
	case contracts.DirectionFalling:
		trendLabel = "하락"
	}

	var rankingNote string
	switch verdict {
	case contracts.VerdictGo:
		rankingNote = "충분한 검색량 대비 경쟁이 적정 수준."
	case contracts.VerdictAvoid:
		rankingNote = "검색량 또는 기회 점수가 낮아 투자 대비 효율이 부족."
	default:
		rankingNote = "경쟁이 치열하거나 기회 점수가 중간 수준. 차별화 필요."
	}
	ranking := fmt.Sprintf("월 %s 검색, 경쟁도 %s, 블루오션 점수 %d점. %s",
		comma(monthlyTotal), compIdx, int(math.Round(blueOceanScore)), rankingNote)

	strategyParts := []string{
		fmt.Sprintf("모바일 비중 %d%%, %s 트렌드.", mobileRatio, trendLabel),
	}
	if blogCount > 0 {
		gapNote := " — 차별화된 앵글 필요."
		if blogCount < blogEntryGapThreshold {
			gapNote = " — 진입 여지 있음."
		}
		strategyParts = append(strategyParts, fmt.Sprintf("블로그 경쟁 %s건%s", comma(blogCount), gapNote))
	}
	switch verdict {
	case contracts.VerdictGo:
		strategyParts = append(strategyParts, "정보성 콘텐츠로 빠른 진입 추천.")
	case contracts.VerdictCaution:
		strategyParts = append(strategyParts, "틈새 앵글(초보자 가이드, 비교 리뷰 등)로 차별화 추천.")
	default:
		strategyParts = append(strategyParts, "다른 키워드 우선 공략 후 재검토 추천.")
	}
	strategy := strings.Join(strategyParts, " ")

	var impact string
	if estimatedTraffic > 0 {
		growthNote := "꾸준한 검색량으로 장기 트래픽원 가능."
		if trendDir == contracts.DirectionRising {
			growthNote = "상승 트렌드로 성장 가능성 높음."
		}
		impact = fmt.Sprintf("상위 3위 진입 시 월 약 %s명 유입 예상. %s", comma(estimatedTraffic), growthNote)
	} else {
		impact = "클릭 데이터 부족으로 유입 예측 어려움. 소규모 테스트 추천."
	}

	return contracts.VerdictResult{
		Keyword:                 keyword,
		Verdict:                 verdict,
		Ranking:                 ranking,
		Strategy:                strategy,
		Impact:                  impact,
		EstimatedMonthlyTraffic: estimatedTraffic,
		AnalyzedAt:              analyzedAt,
	}
}

func (a *Verdict) persist(ctx context.Context, analyzedAt time.Time, results []contracts.VerdictResult) error {
	rows := make([]contracts.AnalysisRow, 0, len(results))
	for _, r := range results {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal verdict result: %w", err)
		}
		rows = append(rows, contracts.AnalysisRow{
			Keyword:    r.Keyword,
			Score:      contracts.VerdictScore(r.Verdict),
			Payload:    payload,
			AnalyzedAt: analyzedAt,
		})
	}

	if err := a.results.AppendGeneration(ctx, contracts.AnalysisVerdict, analyzedAt, rows); err != nil {
		return fmt.Errorf("persist verdict snapshot: %w", err)
	}
	return nil
}
