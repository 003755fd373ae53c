package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Stophyuk/naver-database-api/internal/analysis"
	"github.com/Stophyuk/naver-database-api/internal/contracts"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "분석 스냅샷 상태 조회",
	Long: `타입별 최신 분석 세대의 시각과 행 수를 표시합니다.

표시 정보:
- blue_ocean:  블루오션 점수 스냅샷
- trending:    트렌드 감지 스냅샷
- opportunity: 기회 점수 스냅샷
- verdict:     최종 판정 스냅샷

Example:
  go run ./cmd/viewtory status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Viewtory Snapshot Status ===")

	ctx := cmd.Context()

	_, _, db, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()

	health, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	fmt.Printf("🗄️  Database: healthy (%v, conns %d/%d)\n\n",
		health.ResponseTime.Round(time.Millisecond), health.TotalConns, health.MaxConns)

	repo := analysis.NewRepository(db.Pool)

	fmt.Println("📊 Latest Generations")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	types := []contracts.AnalysisType{
		contracts.AnalysisBlueOcean,
		contracts.AnalysisTrending,
		contracts.AnalysisOpportunity,
		contracts.AnalysisVerdict,
	}
	for _, typ := range types {
		ts, ok, err := repo.LatestGeneration(ctx, typ)
		if err != nil {
			return fmt.Errorf("latest generation (%s): %w", typ, err)
		}
		if !ok {
			fmt.Printf("%-13s %10s\n", typ+":", "없음")
			continue
		}

		rows, err := repo.RowsAt(ctx, typ, ts)
		if err != nil {
			return fmt.Errorf("rows at (%s): %w", typ, err)
		}

		fmt.Printf("%-13s %6d rows  %s (%s)\n",
			typ+":", len(rows), ts.Local().Format("2006-01-02 15:04"), humanAge(ts))
	}

	return nil
}

// humanAge renders the elapsed time since a snapshot in a compact form.
func humanAge(ts time.Time) string {
	age := time.Since(ts)
	switch {
	case age < time.Hour:
		return fmt.Sprintf("%d분 전", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%d시간 전", int(age.Hours()))
	default:
		return fmt.Sprintf("%d일 전", int(age.Hours()/24))
	}
}
