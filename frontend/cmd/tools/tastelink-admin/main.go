// tastelink-admin runs maintenance jobs against the remote store.
//
//	tastelink-admin [-config_folder config] seed
//	tastelink-admin [-config_folder config] migrate [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tastelink/tastelink/frontend/internal/apiclient"
	"github.com/tastelink/tastelink/frontend/internal/service"
	"github.com/tastelink/tastelink/shared/config"
	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/logger"
)

const jobTimeout = 2 * time.Minute

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tastelink-admin [-config_folder dir] seed | migrate [-dry-run]")
	os.Exit(2)
}

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)
	domain.LocalZone = cfg.Public.Location()

	store := apiclient.New(cfg.Public.Store.BaseURL, apiclient.Options{
		Timeout: cfg.Public.Store.Timeout,
		RPS:     cfg.Public.Store.RPS,
		Burst:   cfg.Public.Store.Burst,
	})

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	switch flag.Arg(0) {
	case "seed":
		n, err := service.NewSeeder(store).SeedIfEmpty(ctx)
		if err != nil {
			logger.Log.Error("seed failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("created %d posts\n", n)

	case "migrate":
		fs := flag.NewFlagSet("migrate", flag.ExitOnError)
		dryRun := fs.Bool("dry-run", false, "report what would change without writing")
		_ = fs.Parse(flag.Args()[1:])

		stats, err := service.NewMigrator(store, *dryRun).MigrateCapacity(ctx)
		if err != nil {
			logger.Log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("=================================================")
		fmt.Println("  Capacity migration")
		fmt.Println("=================================================")
		fmt.Printf("dry run:  %t\n", *dryRun)
		fmt.Printf("scanned:  %d\n", stats.Scanned)
		fmt.Printf("migrated: %d\n", stats.Migrated)
		fmt.Printf("skipped:  %d\n", stats.Skipped)
		fmt.Printf("failed:   %d\n", stats.Failed)
		for _, e := range stats.Errors {
			fmt.Println("  -", e)
		}
		if stats.Failed > 0 {
			os.Exit(1)
		}

	default:
		usage()
	}
}
