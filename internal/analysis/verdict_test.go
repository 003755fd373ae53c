package analysis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// seedSnapshots writes pre-existing blue_ocean/trending generations the way a
// previous pipeline run would have.
func seedSnapshots(t *testing.T, store *fakeStore, blueOcean []contracts.AnalysisRow, trending []contracts.TrendingResult) {
	t.Helper()
	ctx := context.Background()

	if len(blueOcean) > 0 {
		ts := time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)
		require.NoError(t, store.AppendGeneration(ctx, contracts.AnalysisBlueOcean, ts, blueOcean))
	}
	if len(trending) > 0 {
		ts := time.Date(2026, 8, 28, 3, 5, 0, 0, time.UTC)
		rows := make([]contracts.AnalysisRow, 0, len(trending))
		for _, tr := range trending {
			payload, err := json.Marshal(tr)
			require.NoError(t, err)
			rows = append(rows, contracts.AnalysisRow{
				Keyword: tr.Keyword, Score: tr.ChangeRate, Payload: payload, AnalyzedAt: ts,
			})
		}
		require.NoError(t, store.AppendGeneration(ctx, contracts.AnalysisTrending, ts, rows))
	}
}

func blueOceanRow(keyword string, score float64) contracts.AnalysisRow {
	payload, _ := json.Marshal(contracts.BlueOceanResult{Keyword: keyword, BlueOceanScore: score})
	return contracts.AnalysisRow{Keyword: keyword, Score: score, Payload: payload}
}

func TestVerdictBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		score       float64
		compIdx     string
		pcCount     int64
		mobileCount int64
		want        string
	}{
		{
			name:  "exact GO boundary",
			score: 70, compIdx: contracts.CompLow, pcCount: 400, mobileCount: 600,
			want: contracts.VerdictGo,
		},
		{
			name:  "medium competition still qualifies",
			score: 85, compIdx: contracts.CompMedium, pcCount: 2000, mobileCount: 8000,
			want: contracts.VerdictGo,
		},
		{
			name:  "just below GO score falls to CAUTION",
			score: 69.99, compIdx: contracts.CompLow, pcCount: 400, mobileCount: 600,
			want: contracts.VerdictCaution,
		},
		{
			name:  "high competition blocks GO",
			score: 90, compIdx: contracts.CompHigh, pcCount: 400, mobileCount: 600,
			want: contracts.VerdictCaution,
		},
		{
			name:  "tiny volume is AVOID regardless of score",
			score: 95, compIdx: contracts.CompLow, pcCount: 49, mobileCount: 50,
			want: contracts.VerdictAvoid,
		},
		{
			name:  "low score is AVOID",
			score: 39.99, compIdx: contracts.CompLow, pcCount: 400, mobileCount: 600,
			want: contracts.VerdictAvoid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedSnapshots(t, store, []contracts.AnalysisRow{blueOceanRow("테스트", tt.score)}, nil)

			stats := &fakeStats{stats: []contracts.KeywordStats{{
				Keyword:            "테스트",
				MonthlyPcCount:     tt.pcCount,
				MonthlyMobileCount: tt.mobileCount,
				CompIdx:            tt.compIdx,
			}}}
			analyzer := NewVerdict(store, stats, &fakeVolumes{}, zerolog.Nop())

			results, err := analyzer.Analyze(context.Background())
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].Verdict)
		})
	}
}

func TestVerdictSkipsKeywordsWithoutStats(t *testing.T) {
	store := newFakeStore()
	seedSnapshots(t, store, []contracts.AnalysisRow{
		blueOceanRow("있음", 80),
		blueOceanRow("없음", 80),
	}, nil)

	stats := &fakeStats{stats: []contracts.KeywordStats{{
		Keyword:            "있음",
		MonthlyPcCount:     1000,
		MonthlyMobileCount: 4000,
		CompIdx:            contracts.CompLow,
	}}}
	analyzer := NewVerdict(store, stats, &fakeVolumes{}, zerolog.Nop())

	results, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "있음", results[0].Keyword)
}

func TestVerdictRationaleTexts(t *testing.T) {
	store := newFakeStore()
	seedSnapshots(t, store,
		[]contracts.AnalysisRow{blueOceanRow("김치", 300)},
		[]contracts.TrendingResult{{Keyword: "김치", ChangeRate: 1.5, Direction: contracts.DirectionRising}},
	)

	stats := &fakeStats{stats: []contracts.KeywordStats{{
		Keyword:             "김치",
		MonthlyPcCount:      10000,
		MonthlyMobileCount:  50000,
		MonthlyPcClicks:     1000,
		MonthlyMobileClicks: 2000,
		CompIdx:             contracts.CompLow,
	}}}
	volumes := &fakeVolumes{latest: map[string]map[string]int64{
		"김치": {contracts.SearchTypeBlog: 500},
	}}
	analyzer := NewVerdict(store, stats, volumes, zerolog.Nop())

	results, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, contracts.VerdictGo, r.Verdict)
	assert.Equal(t, int64(450), r.EstimatedMonthlyTraffic) // 3000 클릭 × 0.15

	assert.Equal(t, "월 60,000 검색, 경쟁도 낮음, 블루오션 점수 300점. 충분한 검색량 대비 경쟁이 적정 수준.", r.Ranking)
	// 모바일 비중 = round(50000/60000*100) = 83%
	assert.Equal(t, "모바일 비중 83%, 상승 트렌드. 블로그 경쟁 500건 — 진입 여지 있음. 정보성 콘텐츠로 빠른 진입 추천.", r.Strategy)
	assert.Equal(t, "상위 3위 진입 시 월 약 450명 유입 예상. 상승 트렌드로 성장 가능성 높음.", r.Impact)
}

func TestVerdictTextBranches(t *testing.T) {
	store := newFakeStore()
	seedSnapshots(t, store, []contracts.AnalysisRow{blueOceanRow("노출많음", 50)}, nil)

	stats := &fakeStats{stats: []contracts.KeywordStats{{
		Keyword:            "노출많음",
		MonthlyPcCount:     500,
		MonthlyMobileCount: 500,
		CompIdx:            contracts.CompHigh,
	}}}
	volumes := &fakeVolumes{latest: map[string]map[string]int64{
		"노출많음": {contracts.SearchTypeBlog: 12000},
	}}
	analyzer := NewVerdict(store, stats, volumes, zerolog.Nop())

	results, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, contracts.VerdictCaution, r.Verdict)
	assert.Contains(t, r.Strategy, "블로그 경쟁 12,000건 — 차별화된 앵글 필요.")
	assert.Contains(t, r.Strategy, "틈새 앵글(초보자 가이드, 비교 리뷰 등)로 차별화 추천.")
	assert.Contains(t, r.Strategy, "안정 트렌드.")
	// 클릭 데이터 없음 → 유입 예측 불가 문구
	assert.Equal(t, "클릭 데이터 부족으로 유입 예측 어려움. 소규모 테스트 추천.", r.Impact)
}

func TestVerdictMobileRatioZeroTotal(t *testing.T) {
	r := classify("없는검색어", 10, contracts.KeywordStats{Keyword: "없는검색어"}, 0,
		contracts.DirectionStable, time.Now())

	assert.Equal(t, contracts.VerdictAvoid, r.Verdict)
	assert.Contains(t, r.Strategy, "모바일 비중 0%")
}

func TestVerdictPersistsAllRowsWithScores(t *testing.T) {
	store := newFakeStore()
	seedSnapshots(t, store, []contracts.AnalysisRow{
		blueOceanRow("진행", 80),
		blueOceanRow("주의", 50),
		blueOceanRow("회피", 10),
	}, nil)

	stats := &fakeStats{stats: []contracts.KeywordStats{
		{Keyword: "진행", MonthlyPcCount: 1000, MonthlyMobileCount: 4000, CompIdx: contracts.CompLow},
		{Keyword: "주의", MonthlyPcCount: 1000, MonthlyMobileCount: 4000, CompIdx: contracts.CompHigh},
		{Keyword: "회피", MonthlyPcCount: 10, MonthlyMobileCount: 20, CompIdx: contracts.CompLow},
	}}
	analyzer := NewVerdict(store, stats, &fakeVolumes{}, zerolog.Nop())
	fixed := time.Date(2026, 8, 29, 4, 0, 0, 0, time.UTC)
	analyzer.now = func() time.Time { return fixed }

	results, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 3)

	rows, err := store.LatestRows(context.Background(), contracts.AnalysisVerdict)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	scores := make(map[string]float64)
	for _, row := range rows {
		scores[row.Keyword] = row.Score
		assert.True(t, row.AnalyzedAt.Equal(fixed))
	}
	assert.Equal(t, 3.0, scores["진행"])
	assert.Equal(t, 2.0, scores["주의"])
	assert.Equal(t, 1.0, scores["회피"])
}

func TestVerdictEmptySnapshotIsNotAnError(t *testing.T) {
	store := newFakeStore()
	analyzer := NewVerdict(store, &fakeStats{}, &fakeVolumes{}, zerolog.Nop())

	results, err := analyzer.Analyze(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}
