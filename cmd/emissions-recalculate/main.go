// emissions-recalculate re-derives the cached emissions of every measurement
// from the currently active factor values. Run it after bulk factor imports
// or to repair drift without going through the HTTP API.
//
// Usage (from backend directory):
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/emissions-recalculate
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/models"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	result, err := models.RecalculateAllEmissions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recalculation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Recalculation complete: total=%d updated=%d skipped=%d\n",
		result.TotalMeasurements, result.UpdatedCount, result.SkippedCount)
}
