package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "viewtory",
	Short: "Viewtory - 네이버 키워드 기회 분석 시스템",
	Long: `Viewtory Unified CLI

네이버 검색광고/블로그 데이터 기반 키워드 기회 분석 시스템.
블루오션 점수, 트렌드 감지, 기회 점수, 종합 판정까지.

Usage:
  go run ./cmd/viewtory [command]

Examples:
  go run ./cmd/viewtory analyze run
  go run ./cmd/viewtory analyze blueocean
  go run ./cmd/viewtory analyze trending --days 7
  go run ./cmd/viewtory status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
