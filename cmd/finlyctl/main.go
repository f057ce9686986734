// Command finlyctl runs operator tasks against the Finly database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/finly/backend/config"
	"github.com/finly/backend/internal/infra/db"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(openPostgres).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openPostgres(cfg *config.Config) (*gorm.DB, func() error, error) {
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return database.DB(), database.Close, nil
}
