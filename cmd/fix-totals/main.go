// fix-totals forcibly recomputes TotalAmount and GrandTotal for stored
// assets, overwriting any explicitly set values. This is the reconciliation
// counterpart to the save hook, which keeps explicit grand totals.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/fix-totals [--department-id N] [--dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/config"
	"github.com/RAGHAVENDRASINGBHAJERI/MIMS-sub001/workflow"
)

func main() {
	departmentId := flag.Int("department-id", 0, "Optional: restrict to one department")
	dryRun := flag.Bool("dry-run", false, "Scan only (no writes)")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	result, err := workflow.FixAssetTotals(context.Background(), *departmentId, *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fix-totals failed after %d assets: %v\n", result.Scanned, err)
		os.Exit(1)
	}

	fmt.Printf("scanned=%d changed=%d failed=%d dry_run=%t\n",
		result.Scanned, result.Changed, result.Failed, result.DryRun)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
