package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// Repository implements contracts.ResultStore over analysis_results
// ⭐ SSOT: 분석 결과 스냅샷 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new analysis-result repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// AppendGeneration inserts one snapshot generation in a single transaction.
// 모든 행이 같은 analyzed_at을 공유하며, 실패 시 세대 전체가 롤백된다.
func (r *Repository) AppendGeneration(ctx context.Context, typ contracts.AnalysisType, analyzedAt time.Time, rows []contracts.AnalysisRow) error {
	if len(rows) == 0 {
		// 유효한 빈 세대: 기록할 행이 없다
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO analysis_results (keyword, analysis_type, score, data, analyzed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row.Keyword, string(typ), row.Score, row.Payload, analyzedAt)
	}

	br := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert %s row: %w", typ, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// LatestGeneration returns the max analyzed_at for a type
func (r *Repository) LatestGeneration(ctx context.Context, typ contracts.AnalysisType) (time.Time, bool, error) {
	query := `SELECT MAX(analyzed_at) FROM analysis_results WHERE analysis_type = $1`

	var ts *time.Time
	if err := r.pool.QueryRow(ctx, query, string(typ)).Scan(&ts); err != nil {
		return time.Time{}, false, err
	}
	if ts == nil {
		return time.Time{}, false, nil
	}
	return *ts, true, nil
}

// RowsAt returns all rows of one generation
func (r *Repository) RowsAt(ctx context.Context, typ contracts.AnalysisType, analyzedAt time.Time) ([]contracts.AnalysisRow, error) {
	query := `
		SELECT keyword, score, data, analyzed_at
		FROM analysis_results
		WHERE analysis_type = $1 AND analyzed_at = $2
		ORDER BY score DESC, id
	`
	return r.queryRows(ctx, query, string(typ), analyzedAt)
}

// LatestRows fetches the latest generation with the two-step read (max
// timestamp, then rows) inside one repeatable-read transaction, so a writer
// publishing a new generation mid-read cannot split the two steps.
func (r *Repository) LatestRows(ctx context.Context, typ contracts.AnalysisType) ([]contracts.AnalysisRow, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var ts *time.Time
	maxQuery := `SELECT MAX(analyzed_at) FROM analysis_results WHERE analysis_type = $1`
	if err := tx.QueryRow(ctx, maxQuery, string(typ)).Scan(&ts); err != nil {
		return nil, err
	}
	if ts == nil {
		// 스냅샷 없음 → 빈 결과 (에러 아님)
		return nil, tx.Commit(ctx)
	}

	query := `
		SELECT keyword, score, data, analyzed_at
		FROM analysis_results
		WHERE analysis_type = $1 AND analyzed_at = $2
		ORDER BY score DESC, id
	`
	rows, err := tx.Query(ctx, query, string(typ), *ts)
	if err != nil {
		return nil, err
	}
	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return result, tx.Commit(ctx)
}

// PurgeOlderThan deletes generations past the retention window
func (r *Repository) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	query := `DELETE FROM analysis_results WHERE analyzed_at < NOW() - ($1 * INTERVAL '1 day')`

	ct, err := r.pool.Exec(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("failed to purge analysis results: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repository) queryRows(ctx context.Context, query string, args ...interface{}) ([]contracts.AnalysisRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func scanRows(rows pgx.Rows) ([]contracts.AnalysisRow, error) {
	defer rows.Close()

	var result []contracts.AnalysisRow
	for rows.Next() {
		var row contracts.AnalysisRow
		if err := rows.Scan(&row.Keyword, &row.Score, &row.Payload, &row.AnalyzedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
