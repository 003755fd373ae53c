package contracts

import "time"

// 네이버 검색광고 API가 보고하는 경쟁도 라벨 (comp_idx 컬럼 원문)
const (
	CompLow    = "낮음"
	CompMedium = "중간"
	CompHigh   = "높음"
	CompNone   = "없음" // 미수집/미보고
)

// 검색결과수 수집 대상 지면
const (
	SearchTypeBlog = "blog"
	SearchTypeNews = "news"
)

// KeywordStats represents the latest search-ad stats for a keyword
// ⭐ SSOT: 수집기(keyword_stats) → 분석 파이프라인 데이터 전달
// 물리적으로는 키워드별 최신 행(MAX(id) per keyword)이 논리 레코드 하나다.
type KeywordStats struct {
	Keyword             string    `json:"keyword"`
	MonthlyPcCount      int64     `json:"monthly_pc_cnt"`
	MonthlyMobileCount  int64     `json:"monthly_mobile_cnt"`
	MonthlyPcClicks     float64   `json:"monthly_pc_clk"`
	MonthlyMobileClicks float64   `json:"monthly_mobile_clk"`
	PcCTR               float64   `json:"monthly_pc_ctr"`
	MobileCTR           float64   `json:"monthly_mobile_ctr"`
	AvgAdDepth          float64   `json:"pl_avg_depth"`
	CompIdx             string    `json:"comp_idx"`
	CollectedAt         time.Time `json:"collected_at"`
}

// MonthlyTotal returns combined PC + mobile monthly search count
func (s KeywordStats) MonthlyTotal() int64 {
	return s.MonthlyPcCount + s.MonthlyMobileCount
}

// MonthlyClicks returns combined PC + mobile monthly ad clicks
func (s KeywordStats) MonthlyClicks() float64 {
	return s.MonthlyPcClicks + s.MonthlyMobileClicks
}

// IsLowCompetition reports whether the keyword sits in the 낮음/중간 band
func (s KeywordStats) IsLowCompetition() bool {
	return s.CompIdx == CompLow || s.CompIdx == CompMedium
}

// SearchVolume represents one raw result-count sample for a keyword/surface pair
type SearchVolume struct {
	Keyword      string    `json:"keyword"`
	SearchType   string    `json:"search_type"`
	TotalResults int64     `json:"total_results"`
	CollectedAt  time.Time `json:"collected_at"`
}

// VolumeChange compares the latest result count against the latest count
// collected before yesterday (트렌드 보조 신호)
type VolumeChange struct {
	Keyword  string
	Current  int64
	Previous int64
}

// TrendWindow holds the two back-to-back window averages of the search-trend
// ratio series for one keyword group. PreviousAvg > 0 is guaranteed by the
// reader contract.
type TrendWindow struct {
	KeywordGroup string
	CurrentAvg   float64
	PreviousAvg  float64
}
