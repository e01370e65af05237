package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/database"
	"github.com/tallyhq/tally/internal/database/repository"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/testdata"
	"github.com/tallyhq/tally/internal/tui"
)

func main() {
	seedSample := flag.Bool("sample-data", false, "seed the database with sample transactions")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	// repositories
	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	catRepo := repository.NewCategoryRepo(db)
	tagRepo := repository.NewTagRepo(db)
	ruleRepo := repository.NewRecurringRuleRepo(db)

	if *seedSample {
		err := testdata.Seed(ctx, testdata.Repos{
			Accounts:     acctRepo,
			Categories:   catRepo,
			Tags:         tagRepo,
			Transactions: txRepo,
			Rules:        ruleRepo,
		})
		if err != nil {
			log.Fatalf("seed sample data: %v", err)
		}
	}

	materializer := &service.Materializer{Transactions: txRepo, Rules: ruleRepo}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Printf("warn: using local timezone due to load failure: %v", err)
		loc = time.Local
	}

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Transactions: txRepo, Accounts: acctRepo, Categories: catRepo, Tags: tagRepo},
		tui.Services{Materializer: materializer},
		loc,
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
