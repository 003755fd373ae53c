package contracts

import (
	"context"
	"time"
)

// StatsReader reads collector-owned keyword stats.
// 파이프라인은 keyword_stats / related_keywords를 절대 쓰지 않는다 (read-only).
type StatsReader interface {
	// LatestKeywordStats returns the latest row per keyword with a positive
	// monthly mobile count, ordered by that count descending.
	LatestKeywordStats(ctx context.Context) ([]KeywordStats, error)

	// AggregatedRelatedKeywords is the all-or-nothing fallback source:
	// related keywords aggregated by MAX(monthly_mobile_cnt), same filter
	// and order as LatestKeywordStats.
	AggregatedRelatedKeywords(ctx context.Context) ([]KeywordStats, error)
}

// VolumeReader reads collector-owned raw result counts (naver_search_volume)
type VolumeReader interface {
	// LatestVolumes returns keyword → latest total_results for one surface type
	LatestVolumes(ctx context.Context, searchType string) (map[string]int64, error)

	// LatestVolumesByKeyword returns keyword → surface type → latest total_results
	LatestVolumesByKeyword(ctx context.Context) (map[string]map[string]int64, error)

	// VolumeChanges returns latest vs pre-yesterday counts per keyword for one
	// surface type; rows with a zero previous count are excluded.
	VolumeChanges(ctx context.Context, searchType string) ([]VolumeChange, error)
}

// TrendReader reads collector-owned search-trend ratio series (search_trends)
type TrendReader interface {
	// WindowAverages returns per keyword group the average ratio over the most
	// recent N days and the N days immediately before; only groups where both
	// windows have data and the previous average is positive.
	WindowAverages(ctx context.Context, days int) ([]TrendWindow, error)
}

// ResultStore is the append-only snapshot store over analysis_results.
// ⭐ SSOT: analysis_results 쓰기는 파이프라인만 수행
type ResultStore interface {
	// AppendGeneration inserts one snapshot generation atomically. Every row
	// carries analyzedAt; readers must never observe a partial generation.
	AppendGeneration(ctx context.Context, typ AnalysisType, analyzedAt time.Time, rows []AnalysisRow) error

	// LatestGeneration returns the max analyzed_at for a type; ok=false when
	// no generation exists.
	LatestGeneration(ctx context.Context, typ AnalysisType) (ts time.Time, ok bool, err error)

	// RowsAt returns all rows of one generation.
	RowsAt(ctx context.Context, typ AnalysisType, analyzedAt time.Time) ([]AnalysisRow, error)

	// LatestRows is the two-step read (max timestamp, then rows) executed under
	// one consistent snapshot. Missing snapshot yields an empty slice, not an
	// error.
	LatestRows(ctx context.Context, typ AnalysisType) ([]AnalysisRow, error)

	// PurgeOlderThan deletes generations older than the retention window and
	// returns the number of rows removed.
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}
