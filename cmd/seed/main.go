package main

import (
	"context"
	"os"

	"github.com/fatih/color"

	"tcg-backend/internal/bootstrap"
	"tcg-backend/internal/config"
	"tcg-backend/internal/repository"
	"tcg-backend/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fail("load config failed: %v", err)
	}

	color.Cyan("[seed] connecting to %s store", cfg.DatabaseDialect())
	db, err := bootstrap.OpenDB(ctx, cfg)
	if err != nil {
		fail("open database failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := repository.AutoMigrate(db); err != nil {
		fail("auto migrate tables failed: %v", err)
	}

	result, err := seed.Run(ctx, db, seed.Options{
		Logf: func(format string, args ...any) {
			color.Green("[seed] "+format, args...)
		},
	})
	if err != nil {
		fail("seeding failed: %v", err)
	}

	color.New(color.FgHiGreen, color.Bold).Printf(
		"[seed] done: %d users, %d cards, %d decks (password %q)\n",
		len(result.Users), len(result.Cards), len(result.Decks), seed.DefaultPassword,
	)
}

func fail(format string, args ...any) {
	color.Red("[seed] "+format, args...)
	os.Exit(1)
}
