package analysis

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// In-memory doubles for the contracts interfaces. 무오류 경로에서는 실제
// 저장소와 같은 관측 결과를 내고, 실패 주입 시에는 트랜잭션 롤백과 동일하게
// 아무것도 남기지 않는다.

type fakeStats struct {
	stats      []contracts.KeywordStats
	related    []contracts.KeywordStats
	statsErr   error
	relatedErr error
}

func (f *fakeStats) LatestKeywordStats(_ context.Context) ([]contracts.KeywordStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeStats) AggregatedRelatedKeywords(_ context.Context) ([]contracts.KeywordStats, error) {
	if f.relatedErr != nil {
		return nil, f.relatedErr
	}
	return f.related, nil
}

type fakeVolumes struct {
	// keyword → search type → total results
	latest  map[string]map[string]int64
	changes []contracts.VolumeChange
	err     error
}

func (f *fakeVolumes) LatestVolumes(_ context.Context, searchType string) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]int64)
	for keyword, byType := range f.latest {
		if total, ok := byType[searchType]; ok {
			out[keyword] = total
		}
	}
	return out, nil
}

func (f *fakeVolumes) LatestVolumesByKeyword(_ context.Context) (map[string]map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.latest == nil {
		return map[string]map[string]int64{}, nil
	}
	return f.latest, nil
}

func (f *fakeVolumes) VolumeChanges(_ context.Context, _ string) ([]contracts.VolumeChange, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.changes, nil
}

type fakeTrends struct {
	windows []contracts.TrendWindow
	err     error
}

func (f *fakeTrends) WindowAverages(_ context.Context, _ int) ([]contracts.TrendWindow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.windows, nil
}

type generation struct {
	at   time.Time
	rows []contracts.AnalysisRow
}

type fakeStore struct {
	generations map[contracts.AnalysisType][]generation
	failType    contracts.AnalysisType // AppendGeneration fails for this type
	purgeDays   []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{generations: make(map[contracts.AnalysisType][]generation)}
}

func (f *fakeStore) AppendGeneration(_ context.Context, typ contracts.AnalysisType, analyzedAt time.Time, rows []contracts.AnalysisRow) error {
	if typ == f.failType && f.failType != "" {
		// 중간 실패를 흉내낸다: 세대 전체가 롤백되어 어떤 행도 남지 않는다
		return errors.New("forced snapshot write failure")
	}
	if len(rows) == 0 {
		return nil
	}
	stored := make([]contracts.AnalysisRow, len(rows))
	copy(stored, rows)
	f.generations[typ] = append(f.generations[typ], generation{at: analyzedAt, rows: stored})
	return nil
}

func (f *fakeStore) LatestGeneration(_ context.Context, typ contracts.AnalysisType) (time.Time, bool, error) {
	gens := f.generations[typ]
	if len(gens) == 0 {
		return time.Time{}, false, nil
	}
	latest := gens[0].at
	for _, g := range gens[1:] {
		if g.at.After(latest) {
			latest = g.at
		}
	}
	return latest, true, nil
}

func (f *fakeStore) RowsAt(_ context.Context, typ contracts.AnalysisType, analyzedAt time.Time) ([]contracts.AnalysisRow, error) {
	for _, g := range f.generations[typ] {
		if g.at.Equal(analyzedAt) {
			out := make([]contracts.AnalysisRow, len(g.rows))
			copy(out, g.rows)
			sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
			return out, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) LatestRows(ctx context.Context, typ contracts.AnalysisType) ([]contracts.AnalysisRow, error) {
	ts, ok, err := f.LatestGeneration(ctx, typ)
	if err != nil || !ok {
		return nil, err
	}
	return f.RowsAt(ctx, typ, ts)
}

func (f *fakeStore) PurgeOlderThan(_ context.Context, days int) (int64, error) {
	f.purgeDays = append(f.purgeDays, days)
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	var purged int64
	for typ, gens := range f.generations {
		var kept []generation
		for _, g := range gens {
			if g.at.Before(cutoff) {
				purged += int64(len(g.rows))
				continue
			}
			kept = append(kept, g)
		}
		f.generations[typ] = kept
	}
	return purged, nil
}

func (f *fakeStore) rowCount(typ contracts.AnalysisType) int {
	n := 0
	for _, g := range f.generations[typ] {
		n += len(g.rows)
	}
	return n
}
