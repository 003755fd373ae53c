package analysis

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// Integration tests — require a running PostgreSQL.
// VIEWTORY_TEST_DATABASE_URL이 없으면 건너뛴다.
func setupRepository(t *testing.T) (*Repository, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	connString := os.Getenv("VIEWTORY_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("VIEWTORY_TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)

	ctx := context.Background()
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_results (
			id BIGSERIAL PRIMARY KEY,
			keyword TEXT NOT NULL,
			analysis_type TEXT NOT NULL,
			score DOUBLE PRECISION,
			data JSONB,
			analyzed_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM analysis_results`)
	require.NoError(t, err)

	return NewRepository(pool), pool
}

func testRows(analyzedAt time.Time, keywords ...string) []contracts.AnalysisRow {
	rows := make([]contracts.AnalysisRow, 0, len(keywords))
	for i, keyword := range keywords {
		payload, _ := json.Marshal(contracts.BlueOceanResult{Keyword: keyword, Rank: i + 1})
		rows = append(rows, contracts.AnalysisRow{
			Keyword:    keyword,
			Score:      float64(100 - i),
			Payload:    payload,
			AnalyzedAt: analyzedAt,
		})
	}
	return rows
}

func TestRepositoryAppendAndRead(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	first := time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AppendGeneration(ctx, contracts.AnalysisBlueOcean, first, testRows(first, "김치")))
	require.NoError(t, repo.AppendGeneration(ctx, contracts.AnalysisBlueOcean, second, testRows(second, "김치", "된장")))

	ts, ok, err := repo.LatestGeneration(ctx, contracts.AnalysisBlueOcean)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ts.Equal(second))

	rows, err := repo.LatestRows(ctx, contracts.AnalysisBlueOcean)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "김치", rows[0].Keyword)

	// 다른 타입은 영향 없음
	_, ok, err = repo.LatestGeneration(ctx, contracts.AnalysisVerdict)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoryIdempotentReRead(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AppendGeneration(ctx, contracts.AnalysisTrending, at, testRows(at, "김치", "막걸리")))

	first, err := repo.LatestRows(ctx, contracts.AnalysisTrending)
	require.NoError(t, err)
	second, err := repo.LatestRows(ctx, contracts.AnalysisTrending)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRepositoryAtomicGeneration(t *testing.T) {
	repo, pool := setupRepository(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)
	rows := testRows(at, "정상", "정상2")
	// jsonb 파싱에 실패하는 행을 중간에 끼워 배치 전체를 실패시킨다
	rows = append(rows, contracts.AnalysisRow{
		Keyword:    "손상",
		Score:      1,
		Payload:    []byte(`{not-json`),
		AnalyzedAt: at,
	})

	err := repo.AppendGeneration(ctx, contracts.AnalysisOpportunity, at, rows)
	require.Error(t, err)

	// 전부 아니면 전무: 부분 기록이 보이면 안 된다
	var count int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM analysis_results WHERE analysis_type = 'opportunity'`,
	).Scan(&count))
	assert.Zero(t, count)
}

func TestRepositoryEmptyGeneration(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AppendGeneration(ctx, contracts.AnalysisVerdict, time.Now(), nil))

	rows, err := repo.LatestRows(ctx, contracts.AnalysisVerdict)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryPurgeOlderThan(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -10)
	fresh := time.Now().UTC()
	require.NoError(t, repo.AppendGeneration(ctx, contracts.AnalysisBlueOcean, old, testRows(old, "옛날")))
	require.NoError(t, repo.AppendGeneration(ctx, contracts.AnalysisBlueOcean, fresh, testRows(fresh, "최신")))

	purged, err := repo.PurgeOlderThan(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	rows, err := repo.LatestRows(ctx, contracts.AnalysisBlueOcean)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "최신", rows[0].Keyword)
}
