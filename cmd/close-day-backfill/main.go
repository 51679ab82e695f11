// close-day-backfill replays the close-day workflow for a venue over a date
// range. Days that were already closed are skipped, so the tool is safe to
// re-run after a partial failure.
//
// Usage:
//
//	go run ./cmd/close-day-backfill -venue-id <uuid> -from 2026-01-01 -to 2026-01-31
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"bitbucket.org/mmdatafocus/venues_backend/workflow"
)

func main() {
	venueID := flag.String("venue-id", "", "Venue to close (uuid string). Required.")
	from := flag.String("from", "", "Start date (YYYY-MM-DD). Required.")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD). Defaults to yesterday.")
	flag.Parse()

	if strings.TrimSpace(*venueID) == "" || strings.TrimSpace(*from) == "" {
		fmt.Fprintln(os.Stderr, "usage: close-day-backfill -venue-id <uuid> -from YYYY-MM-DD [-to YYYY-MM-DD]")
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()
	config.ConnectRedis()

	start, err := utils.ParseBusinessDate(strings.TrimSpace(*from))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from date: %v\n", err)
		os.Exit(1)
	}
	end := time.Now().AddDate(0, 0, -1)
	if strings.TrimSpace(*to) != "" {
		end, err = utils.ParseBusinessDate(strings.TrimSpace(*to))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -to date: %v\n", err)
			os.Exit(1)
		}
	}
	if end.Before(start) {
		fmt.Fprintln(os.Stderr, "-to date is before -from date")
		os.Exit(1)
	}

	logger := config.GetLogger()
	closed, skipped, failed := 0, 0, 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := utils.FormatBusinessDate(d)
		result, err := workflow.ProcessCloseDay(ctx, logger, workflow.CloseDayInput{
			VenueId:      strings.TrimSpace(*venueID),
			BusinessDate: date,
		})
		switch {
		case errors.Is(err, workflow.ErrDayAlreadyClosed):
			skipped++
			fmt.Printf("%s already closed, skipping\n", date)
		case err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", date, err)
		default:
			closed++
			fmt.Printf("%s closed: %d transactions, labor variance %s\n",
				date, result.TransactionsCreated, result.LaborVariance)
		}
	}

	fmt.Printf("Backfill finished: %d closed, %d skipped, %d failed\n", closed, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
