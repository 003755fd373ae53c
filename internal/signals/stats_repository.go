package signals

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// StatsRepository implements contracts.StatsReader over keyword_stats and
// related_keywords
// ⭐ SSOT: 검색광고 통계 조회는 여기서만
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// LatestKeywordStats returns the latest row per keyword (MAX(id) 기준) with a
// positive monthly mobile count, ordered by that count descending.
func (r *StatsRepository) LatestKeywordStats(ctx context.Context) ([]contracts.KeywordStats, error) {
	query := `
		SELECT keyword,
		       COALESCE(monthly_pc_cnt, 0),
		       COALESCE(monthly_mobile_cnt, 0),
		       COALESCE(monthly_pc_clk, 0),
		       COALESCE(monthly_mobile_clk, 0),
		       COALESCE(monthly_pc_ctr, 0),
		       COALESCE(monthly_mobile_ctr, 0),
		       COALESCE(pl_avg_depth, 0),
		       COALESCE(comp_idx, '없음'),
		       collected_at
		FROM keyword_stats
		WHERE id IN (SELECT MAX(id) FROM keyword_stats GROUP BY keyword)
		  AND COALESCE(monthly_mobile_cnt, 0) > 0
		ORDER BY monthly_mobile_cnt DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []contracts.KeywordStats
	for rows.Next() {
		var s contracts.KeywordStats
		if err := rows.Scan(
			&s.Keyword, &s.MonthlyPcCount, &s.MonthlyMobileCount,
			&s.MonthlyPcClicks, &s.MonthlyMobileClicks,
			&s.PcCTR, &s.MobileCTR, &s.AvgAdDepth,
			&s.CompIdx, &s.CollectedAt,
		); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// AggregatedRelatedKeywords aggregates related_keywords into per-keyword rows
// (MAX(monthly_mobile_cnt) 기준). keyword_stats가 비었을 때의 전면 대체 소스.
func (r *StatsRepository) AggregatedRelatedKeywords(ctx context.Context) ([]contracts.KeywordStats, error) {
	query := `
		SELECT related_keyword,
		       MAX(COALESCE(monthly_pc_cnt, 0))     AS pc_cnt,
		       MAX(COALESCE(monthly_mobile_cnt, 0)) AS mobile_cnt,
		       COALESCE(MAX(comp_idx), '없음')       AS comp_idx,
		       MAX(collected_at)                    AS collected_at
		FROM related_keywords
		GROUP BY related_keyword
		HAVING MAX(COALESCE(monthly_mobile_cnt, 0)) > 0
		ORDER BY mobile_cnt DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []contracts.KeywordStats
	for rows.Next() {
		var s contracts.KeywordStats
		if err := rows.Scan(
			&s.Keyword, &s.MonthlyPcCount, &s.MonthlyMobileCount,
			&s.CompIdx, &s.CollectedAt,
		); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
