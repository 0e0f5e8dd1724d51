// Command sheetcsv parses spreadsheet CSV exports with the same parser the
// site uses, and fetches published sheets for inspection.
//
//	sheetcsv parse export.csv
//	cat export.csv | sheetcsv parse -o yaml
//	sheetcsv fetch 年間スケジュール --with-header
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Same .env as the server; absence is fine
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
