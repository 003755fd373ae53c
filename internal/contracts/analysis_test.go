package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult(t *testing.T) {
	tests := []struct {
		name string
		typ  AnalysisType
		in   interface{}
	}{
		{
			name: "blue_ocean",
			typ:  AnalysisBlueOcean,
			in: &BlueOceanResult{
				Keyword:        "김치",
				SearchVolume:   50000,
				BlogCount:      500,
				Competition:    CompLow,
				BlueOceanScore: 300,
				Rank:           1,
			},
		},
		{
			name: "trending",
			typ:  AnalysisTrending,
			in: &TrendingResult{
				Keyword:     "김치",
				CurrentAvg:  120,
				PreviousAvg: 80,
				ChangeRate:  1.5,
				Direction:   DirectionRising,
			},
		},
		{
			name: "opportunity",
			typ:  AnalysisOpportunity,
			in: &OpportunityResult{
				Keyword:              "김치",
				BlueOceanScore:       300,
				TrendDirection:       DirectionRising,
				OpportunityScore:     450,
				SuggestedContentType: ContentTypeBlog,
				Reason:               "블로그 콘텐츠 부족 (500건), 검색량 높음 (50,000)",
			},
		},
		{
			name: "verdict",
			typ:  AnalysisVerdict,
			in: &VerdictResult{
				Keyword:                 "김치",
				Verdict:                 VerdictGo,
				EstimatedMonthlyTraffic: 450,
				AnalyzedAt:              time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			require.NoError(t, err)

			got, err := DecodeResult(tt.typ, data)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestDecodeResultUnknownType(t *testing.T) {
	_, err := DecodeResult(AnalysisType("sentiment"), []byte(`{}`))
	assert.Error(t, err)
}

func TestDecodeResultBadPayload(t *testing.T) {
	_, err := DecodeResult(AnalysisBlueOcean, []byte(`{"rank": "first"}`))
	assert.Error(t, err)
}

func TestVerdictScore(t *testing.T) {
	assert.Equal(t, 3.0, VerdictScore(VerdictGo))
	assert.Equal(t, 2.0, VerdictScore(VerdictCaution))
	assert.Equal(t, 1.0, VerdictScore(VerdictAvoid))
	assert.Equal(t, 1.0, VerdictScore("???"))
}

func TestKeywordStatsDerived(t *testing.T) {
	s := KeywordStats{
		Keyword:             "김치",
		MonthlyPcCount:      10000,
		MonthlyMobileCount:  50000,
		MonthlyPcClicks:     1000,
		MonthlyMobileClicks: 2000,
		CompIdx:             CompLow,
	}

	assert.Equal(t, int64(60000), s.MonthlyTotal())
	assert.Equal(t, 3000.0, s.MonthlyClicks())
	assert.True(t, s.IsLowCompetition())

	s.CompIdx = CompHigh
	assert.False(t, s.IsLowCompetition())

	s.CompIdx = CompMedium
	assert.True(t, s.IsLowCompetition())
}
