// Maintenance tool for the tycoon server database: creates missing tables
// and prunes old game snapshots. Run it against the same configuration file
// as the server.
//
//	go run scripts/maintain_db.go -config config/config.yaml -prune-days 30
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/tycoonfree/tycoon-server-go/internal/config"
	"github.com/tycoonfree/tycoon-server-go/internal/repository"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	pruneDays := flag.Int("prune-days", 0, "drop snapshots older than this many days, 0 keeps all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("database.url is not configured")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("=== Tycoon DB Maintenance ===")
	db, err := repository.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	fmt.Println("schema up to date")

	if *pruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -*pruneDays)
		results := repository.NewResultRepository(db)
		if err := results.PruneSnapshotsBefore(ctx, cutoff); err != nil {
			log.Fatalf("prune snapshots: %v", err)
		}
		fmt.Printf("pruned snapshots taken before %s\n", cutoff.Format(time.RFC3339))
	}
	fmt.Println("done")
}
