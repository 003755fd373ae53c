package contracts

import (
	"encoding/json"
	"fmt"
	"time"
)

// AnalysisType discriminates the four snapshot families in analysis_results
type AnalysisType string

const (
	AnalysisBlueOcean   AnalysisType = "blue_ocean"
	AnalysisTrending    AnalysisType = "trending"
	AnalysisOpportunity AnalysisType = "opportunity"
	AnalysisVerdict     AnalysisType = "verdict"
)

// 트렌드 방향
const (
	DirectionRising  = "rising"
	DirectionFalling = "falling"
	DirectionStable  = "stable"
)

// 콘텐츠 유형 추천
const (
	ContentTypeBlog    = "blog"
	ContentTypeYoutube = "youtube"
	ContentTypeBoth    = "both"
)

// 최종 판정
const (
	VerdictGo      = "GO"
	VerdictCaution = "CAUTION"
	VerdictAvoid   = "AVOID"
)

// VerdictScore maps a verdict to its stored score (GO=3, CAUTION=2, AVOID=1)
func VerdictScore(verdict string) float64 {
	switch verdict {
	case VerdictGo:
		return 3
	case VerdictCaution:
		return 2
	default:
		return 1
	}
}

// AnalysisRow is one persisted row of a snapshot generation.
// 같은 (analysis_type, analyzed_at)을 공유하는 행 집합이 한 세대다.
type AnalysisRow struct {
	Keyword    string          `json:"keyword"`
	Score      float64         `json:"score"`
	Payload    json.RawMessage `json:"data"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
}

// BlueOceanResult is the blue_ocean payload shape (쿼리 레이어 계약)
type BlueOceanResult struct {
	Keyword        string  `json:"keyword"`
	SearchVolume   int64   `json:"searchVolume"`
	BlogCount      int64   `json:"blogCount"`
	Competition    string  `json:"competition"`
	BlueOceanScore float64 `json:"blueOceanScore"`
	Rank           int     `json:"rank"`
}

// TrendingResult is the trending payload shape
type TrendingResult struct {
	Keyword     string  `json:"keyword"`
	CurrentAvg  float64 `json:"currentAvg"`
	PreviousAvg float64 `json:"previousAvg"`
	ChangeRate  float64 `json:"changeRate"`
	Direction   string  `json:"direction"`
}

// OpportunityResult is the opportunity payload shape
type OpportunityResult struct {
	Keyword              string  `json:"keyword"`
	BlueOceanScore       float64 `json:"blueOceanScore"`
	TrendDirection       string  `json:"trendDirection"`
	OpportunityScore     float64 `json:"opportunityScore"`
	SuggestedContentType string  `json:"suggestedContentType"`
	Reason               string  `json:"reason"`
}

// VerdictResult is the verdict payload shape
type VerdictResult struct {
	Keyword                 string    `json:"keyword"`
	Verdict                 string    `json:"verdict"`
	Ranking                 string    `json:"ranking"`
	Strategy                string    `json:"strategy"`
	Impact                  string    `json:"impact"`
	EstimatedMonthlyTraffic int64     `json:"estimatedMonthlyTraffic"`
	AnalyzedAt              time.Time `json:"analyzedAt"`
}

// DecodeResult decodes a stored payload into the concrete result record for
// its analysis type. 저장은 JSON 컬럼이지만 읽기 시점에는 항상 타입별 구조체로
// 복원한다 (opaque blob 금지).
func DecodeResult(typ AnalysisType, data []byte) (interface{}, error) {
	switch typ {
	case AnalysisBlueOcean:
		var r BlueOceanResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode blue_ocean payload: %w", err)
		}
		return &r, nil
	case AnalysisTrending:
		var r TrendingResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode trending payload: %w", err)
		}
		return &r, nil
	case AnalysisOpportunity:
		var r OpportunityResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode opportunity payload: %w", err)
		}
		return &r, nil
	case AnalysisVerdict:
		var r VerdictResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode verdict payload: %w", err)
		}
		return &r, nil
	default:
		return nil, fmt.Errorf("unknown analysis type: %q", typ)
	}
}
