package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"outage-api/internal/config"
	"outage-api/internal/ingest"
	"outage-api/internal/logging"
	"outage-api/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	addresses := flag.String("addresses", "", "Address snapshot (CSV or Parquet), path or URL")
	serviceLines := flag.String("service-lines", "", "Service line feed (JSON), path or URL")
	outageLines := flag.String("outage-lines", "", "Outage line feed (JSON), path or URL")
	incidents := flag.String("incidents", "", "Customer outage incident feed (JSON), path or URL")
	flag.Parse()

	if *addresses == "" && *serviceLines == "" && *outageLines == "" && *incidents == "" {
		fmt.Println("Error: at least one of --addresses, --service-lines, --outage-lines or --incidents is required")
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load(".env.local")

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Printf("Error creating schema: %v\n", err)
		os.Exit(1)
	}

	syncer := ingest.NewSynchronizer(repo, ingest.NewFetcher(&http.Client{Timeout: 10 * time.Minute}), nil, map[string]string{
		repository.TableAddresses:    *addresses,
		repository.TableServiceLines: *serviceLines,
		repository.TableOutageLines:  *outageLines,
		repository.TableIncidents:    *incidents,
	})

	fmt.Printf("Importing %v\n", syncer.Tables())

	results, err := syncer.SynchronizeAll(ctx)
	for _, res := range results {
		fmt.Printf("%-16s rows=%d skipped=%d duration=%s\n", res.Table, res.Rows, res.Skipped, res.Duration.Round(time.Millisecond))
	}
	if err != nil {
		fmt.Printf("Error importing: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Import finished")
}
