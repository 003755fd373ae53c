package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Stophyuk/naver-database-api/internal/analysis"
	"github.com/Stophyuk/naver-database-api/internal/contracts"
	"github.com/Stophyuk/naver-database-api/internal/signals"
	"github.com/Stophyuk/naver-database-api/pkg/config"
	"github.com/Stophyuk/naver-database-api/pkg/database"
	"github.com/Stophyuk/naver-database-api/pkg/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analysis 모듈 - 키워드 기회 분석",
	Long: `Analysis 모듈은 수집된 키워드 신호를 분석하여 기회 점수를 산출합니다.

분석 단계:
- blueocean: 검색량 대비 블로그 경쟁 강도 (블루오션 점수)
- trending: 기간 비교 검색량 변화율 (상승/하락/안정)
- opportunity: 블루오션 × 트렌드 가중 종합 점수
- verdict: GO / CAUTION / AVOID 최종 판정

명령어:
  run          전체 실행 (purge → opportunity → verdict)
  blueocean    블루오션 점수 산출
  trending     트렌드 변화 감지
  opportunity  기회 점수 산출
  verdict      최종 판정 산출
  purge        오래된 분석 스냅샷 삭제`,
}

var (
	// trending / purge 플래그
	trendingDays int
	purgeDays    int
)

var analyzeRunCmd = &cobra.Command{
	Use:   "run",
	Short: "전체 실행 (purge → opportunity → verdict)",
	Long: `보존 기간이 지난 스냅샷을 정리한 뒤 전체 분석 사이클을 실행합니다.

Example:
  go run ./cmd/viewtory analyze run`,
	RunE: runAnalyzeRun,
}

var analyzeBlueOceanCmd = &cobra.Command{
	Use:   "blueocean",
	Short: "블루오션 점수 산출",
	Long: `검색량과 블로그 발행량을 비교하여 블루오션 점수를 산출합니다.

Example:
  go run ./cmd/viewtory analyze blueocean`,
	RunE: runAnalyzeBlueOcean,
}

var analyzeTrendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "트렌드 변화 감지",
	Long: `최근 N일과 직전 N일의 검색량을 비교하여 상승/하락 키워드를 감지합니다.

Example:
  go run ./cmd/viewtory analyze trending
  go run ./cmd/viewtory analyze trending --days 14`,
	RunE: runAnalyzeTrending,
}

var analyzeOpportunityCmd = &cobra.Command{
	Use:   "opportunity",
	Short: "기회 점수 산출",
	Long: `블루오션 점수에 트렌드 가중치를 곱해 종합 기회 점수를 산출합니다.

Example:
  go run ./cmd/viewtory analyze opportunity`,
	RunE: runAnalyzeOpportunity,
}

var analyzeVerdictCmd = &cobra.Command{
	Use:   "verdict",
	Short: "최종 판정 산출",
	Long: `최신 블루오션 스냅샷을 기준으로 GO / CAUTION / AVOID 판정을 산출합니다.

Example:
  go run ./cmd/viewtory analyze verdict`,
	RunE: runAnalyzeVerdict,
}

var analyzePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "오래된 분석 스냅샷 삭제",
	Long: `보존 기간이 지난 분석 결과 행을 삭제합니다.

Example:
  go run ./cmd/viewtory analyze purge
  go run ./cmd/viewtory analyze purge --days 14`,
	RunE: runAnalyzePurge,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.AddCommand(analyzeRunCmd)
	analyzeCmd.AddCommand(analyzeBlueOceanCmd)
	analyzeCmd.AddCommand(analyzeTrendingCmd)
	analyzeCmd.AddCommand(analyzeOpportunityCmd)
	analyzeCmd.AddCommand(analyzeVerdictCmd)
	analyzeCmd.AddCommand(analyzePurgeCmd)

	// trending 플래그
	analyzeTrendingCmd.Flags().IntVar(&trendingDays, "days", 0, "비교 윈도우 (일, 기본: 설정값)")

	// purge 플래그
	analyzePurgeCmd.Flags().IntVar(&purgeDays, "days", 0, "보존 기간 (일, 기본: 설정값)")
}

func runAnalyzeRun(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Analyze: Full Pipeline ===")

	ctx := cmd.Context()

	cfg, log, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline := newPipeline(cfg, log, db)

	report, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	fmt.Printf("🗑️  Purged rows: %d\n", report.PurgedRows)
	fmt.Printf("📊 Opportunities: %d\n", len(report.Opportunities))
	fmt.Printf("⚖️  Verdicts: %d\n\n", len(report.Verdicts))

	// 상위 10개 기회 키워드 요약
	fmt.Println("=== Top Opportunities ===")
	limit := 10
	if len(report.Opportunities) < limit {
		limit = len(report.Opportunities)
	}
	for i := 0; i < limit; i++ {
		o := report.Opportunities[i]
		fmt.Printf("%2d. %s (%.2f점, %s) - %s\n",
			i+1, o.Keyword, o.OpportunityScore, o.TrendDirection, o.Reason)
	}

	fmt.Println("\n✅ Full pipeline completed!")
	return nil
}

func runAnalyzeBlueOcean(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Analyze: Blue Ocean Score ===")

	ctx := cmd.Context()

	_, log, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	blueOcean := newBlueOcean(log, db)

	results, err := blueOcean.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze blue ocean: %w", err)
	}

	fmt.Printf("\n✅ Blue ocean analysis completed: %d keywords scored\n", len(results))
	return nil
}

func runAnalyzeTrending(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Analyze: Trending Keywords ===")

	ctx := cmd.Context()

	cfg, log, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	days := trendingDays
	if days <= 0 {
		days = cfg.Analysis.TrendWindowDays
	}
	fmt.Printf("📅 Window: %d days\n\n", days)

	resultRepo := analysis.NewRepository(db.Pool)
	trending := analysis.NewTrending(
		signals.NewTrendRepository(db.Pool),
		signals.NewVolumeRepository(db.Pool),
		resultRepo,
		log,
	)

	results, err := trending.Analyze(ctx, days)
	if err != nil {
		return fmt.Errorf("analyze trending: %w", err)
	}

	fmt.Printf("\n✅ Trending analysis completed: %d keywords\n", len(results))
	return nil
}

func runAnalyzeOpportunity(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Analyze: Opportunity Score ===")

	ctx := cmd.Context()

	cfg, log, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	opportunity := newOpportunity(cfg, log, db)

	results, err := opportunity.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze opportunity: %w", err)
	}

	fmt.Printf("\n✅ Opportunity analysis completed: %d keywords\n", len(results))
	return nil
}

func runAnalyzeVerdict(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Analyze: Final Verdict ===")

	ctx := cmd.Context()

	_, log, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	resultRepo := analysis.NewRepository(db.Pool)
	verdict := analysis.NewVerdict(
		resultRepo,
		signals.NewStatsRepository(db.Pool),
		signals.NewVolumeRepository(db.Pool),
		log,
	)

	results, err := verdict.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze verdict: %w", err)
	}

	var goCount, cautionCount, avoidCount int
	for _, r := range results {
		switch r.Verdict {
		case contracts.VerdictGo:
			goCount++
		case contracts.VerdictCaution:
			cautionCount++
		default:
			avoidCount++
		}
	}

	fmt.Printf("\n✅ Verdict completed: %d keywords (GO %d / CAUTION %d / AVOID %d)\n",
		len(results), goCount, cautionCount, avoidCount)
	return nil
}

func runAnalyzePurge(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Analyze: Purge Old Snapshots ===")

	ctx := cmd.Context()

	cfg, _, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	days := purgeDays
	if days <= 0 {
		days = cfg.Analysis.RetentionDays
	}
	fmt.Printf("📅 Retention: %d days\n", days)

	purged, err := analysis.NewRepository(db.Pool).PurgeOlderThan(ctx, days)
	if err != nil {
		return fmt.Errorf("purge snapshots: %w", err)
	}

	fmt.Printf("\n✅ Purge completed: %d rows deleted\n", purged)
	return nil
}

// newBlueOcean wires the blue-ocean analyzer against live repositories.
func newBlueOcean(log zerolog.Logger, db *database.DB) *analysis.BlueOcean {
	return analysis.NewBlueOcean(
		signals.NewStatsRepository(db.Pool),
		signals.NewVolumeRepository(db.Pool),
		analysis.NewRepository(db.Pool),
		log,
	)
}

func newOpportunity(cfg *config.Config, log zerolog.Logger, db *database.DB) *analysis.Opportunity {
	resultRepo := analysis.NewRepository(db.Pool)
	trending := analysis.NewTrending(
		signals.NewTrendRepository(db.Pool),
		signals.NewVolumeRepository(db.Pool),
		resultRepo,
		log,
	)
	return analysis.NewOpportunity(newBlueOcean(log, db), trending, resultRepo, cfg.Analysis.TrendWindowDays, log)
}

func newPipeline(cfg *config.Config, log zerolog.Logger, db *database.DB) *analysis.Pipeline {
	resultRepo := analysis.NewRepository(db.Pool)
	verdict := analysis.NewVerdict(
		resultRepo,
		signals.NewStatsRepository(db.Pool),
		signals.NewVolumeRepository(db.Pool),
		log,
	)
	return analysis.NewPipeline(newOpportunity(cfg, log, db), verdict, resultRepo, cfg.Analysis.RetentionDays, log)
}

func initDeps() (*config.Config, zerolog.Logger, *database.DB, error) {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	// 로거 초기화
	log := logger.New(cfg)

	// DB 연결
	db, err := database.New(cfg)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("connect to database: %w", err)
	}

	return cfg, log.Zerolog(), db, nil
}
