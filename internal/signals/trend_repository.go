package signals

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// TrendRepository implements contracts.TrendReader over search_trends
type TrendRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewTrendRepository creates a new search-trend repository
func NewTrendRepository(pool *pgxpool.Pool) *TrendRepository {
	return &TrendRepository{pool: pool, now: time.Now}
}

// WindowAverages returns per keyword group the average ratio over the most
// recent N days and the N days immediately before. period는 'YYYY-MM-DD' 문자열
// 컬럼이라 경계도 문자열 비교로 건다 (수집기 스키마 계약).
func (r *TrendRepository) WindowAverages(ctx context.Context, days int) ([]contracts.TrendWindow, error) {
	now := r.now()
	currentStart := now.AddDate(0, 0, -days).Format("2006-01-02")
	previousStart := now.AddDate(0, 0, -days*2).Format("2006-01-02")

	query := `
		SELECT keyword_group,
		       AVG(ratio) FILTER (WHERE period >= $1)                    AS current_avg,
		       AVG(ratio) FILTER (WHERE period >= $2 AND period < $1)    AS previous_avg
		FROM search_trends
		WHERE period >= $2
		GROUP BY keyword_group
		HAVING AVG(ratio) FILTER (WHERE period >= $1) IS NOT NULL
		   AND AVG(ratio) FILTER (WHERE period >= $2 AND period < $1) IS NOT NULL
		   AND AVG(ratio) FILTER (WHERE period >= $2 AND period < $1) > 0
	`

	rows, err := r.pool.Query(ctx, query, currentStart, previousStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []contracts.TrendWindow
	for rows.Next() {
		var w contracts.TrendWindow
		if err := rows.Scan(&w.KeywordGroup, &w.CurrentAvg, &w.PreviousAvg); err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}
