package main

import (
	"os"

	"github.com/Stophyuk/naver-database-api/cmd/viewtory/commands"
)

// main is the entry point for the Viewtory CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/viewtory [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
