package signals

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// VolumeRepository implements contracts.VolumeReader over naver_search_volume
type VolumeRepository struct {
	pool *pgxpool.Pool
}

// NewVolumeRepository creates a new search-volume repository
func NewVolumeRepository(pool *pgxpool.Pool) *VolumeRepository {
	return &VolumeRepository{pool: pool}
}

// LatestVolumes returns keyword → latest total_results for one surface type
func (r *VolumeRepository) LatestVolumes(ctx context.Context, searchType string) (map[string]int64, error) {
	query := `
		SELECT DISTINCT ON (keyword) keyword, COALESCE(total_results, 0)
		FROM naver_search_volume
		WHERE search_type = $1
		ORDER BY keyword, collected_at DESC
	`

	rows, err := r.pool.Query(ctx, query, searchType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volumes := make(map[string]int64)
	for rows.Next() {
		var keyword string
		var total int64
		if err := rows.Scan(&keyword, &total); err != nil {
			return nil, err
		}
		volumes[keyword] = total
	}
	return volumes, rows.Err()
}

// LatestVolumesByKeyword returns keyword → surface type → latest total_results
// (키워드/지면별 최신 행 = MAX(id) 기준)
func (r *VolumeRepository) LatestVolumesByKeyword(ctx context.Context) (map[string]map[string]int64, error) {
	query := `
		SELECT keyword, search_type, COALESCE(total_results, 0)
		FROM naver_search_volume
		WHERE id IN (
			SELECT MAX(id) FROM naver_search_volume GROUP BY keyword, search_type
		)
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	volumes := make(map[string]map[string]int64)
	for rows.Next() {
		var keyword, searchType string
		var total int64
		if err := rows.Scan(&keyword, &searchType, &total); err != nil {
			return nil, err
		}
		if volumes[keyword] == nil {
			volumes[keyword] = make(map[string]int64)
		}
		volumes[keyword][searchType] = total
	}
	return volumes, rows.Err()
}

// VolumeChanges compares the latest count per keyword against the latest count
// collected before yesterday. Previous counts of zero are excluded.
func (r *VolumeRepository) VolumeChanges(ctx context.Context, searchType string) ([]contracts.VolumeChange, error) {
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (keyword) keyword, COALESCE(total_results, 0) AS total_results
			FROM naver_search_volume
			WHERE search_type = $1
			ORDER BY keyword, collected_at DESC
		), previous AS (
			SELECT DISTINCT ON (keyword) keyword, COALESCE(total_results, 0) AS total_results
			FROM naver_search_volume
			WHERE search_type = $1
			  AND collected_at < CURRENT_DATE - INTERVAL '1 day'
			ORDER BY keyword, collected_at DESC
		)
		SELECT l.keyword, l.total_results, p.total_results
		FROM latest l
		JOIN previous p USING (keyword)
		WHERE p.total_results > 0
	`

	rows, err := r.pool.Query(ctx, query, searchType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []contracts.VolumeChange
	for rows.Next() {
		var c contracts.VolumeChange
		if err := rows.Scan(&c.Keyword, &c.Current, &c.Previous); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
