package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-ddd-finance/config"
	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-finance/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
)

// seed creates a demo user with a handful of entries for the current year.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	userRepo := pginfra.NewUserRepository(pool)
	users := application.NewUserService(userRepo, helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL), nil, logger, nil, cfg.AppName)
	entries := application.NewEntryService(pginfra.NewEntryRepository(pool), nil, logger)

	email := "demo@minhasfinancas.dev"
	password := "password123"

	u, err := users.Register(ctx, entity.NewUser("Demo User", email, password))
	var ruleErr *application.BusinessRuleError
	if errors.As(err, &ruleErr) {
		fmt.Printf("user %s already exists; skipping seed\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", u.ID, email, password)

	now := entries.Now()
	samples := []struct {
		desc   string
		amount string
		typ    entity.EntryType
		status entity.EntryStatus
	}{
		{"Salário", "5200.00", entity.EntryTypeIncome, entity.EntryStatusSettled},
		{"Aluguel", "1800.00", entity.EntryTypeExpense, entity.EntryStatusSettled},
		{"Supermercado", "742.35", entity.EntryTypeExpense, entity.EntryStatusSettled},
		{"Freelance", "950.00", entity.EntryTypeIncome, entity.EntryStatusPending},
		{"Academia", "120.00", entity.EntryTypeExpense, entity.EntryStatusCancelled},
	}
	for _, s := range samples {
		e := entity.NewEntry(s.desc, int(now.Month()), now.Year(), u.ID, decimal.RequireFromString(s.amount), s.typ)
		saved, err := entries.Create(ctx, e)
		if err != nil {
			log.Fatalf("failed to seed entry %q: %v", s.desc, err)
		}
		if s.status != saved.Status {
			if saved, err = entries.UpdateStatus(ctx, saved, s.status); err != nil {
				log.Fatalf("failed to update status of %q: %v", s.desc, err)
			}
		}
		fmt.Printf("seeded entry: id=%d %s %s %s\n", saved.ID, saved.Type, saved.Amount.StringFixed(2), saved.Status)
	}

	balance, err := entries.ComputeUserBalance(ctx, u.ID)
	if err != nil {
		log.Fatalf("failed to compute balance: %v", err)
	}
	fmt.Printf("balance for %s: %s\n", email, balance.StringFixed(2))
}
