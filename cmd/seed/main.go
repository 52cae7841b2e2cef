// Seed tool: provisions the admin user and, optionally, a demo dataset.
//
// Usage:
//
//	seed -email admin@example.com -password secret [-demo]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stockpilot/internal/config"
	"stockpilot/internal/core/apperror"
	"stockpilot/internal/core/types"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/domain/ledger"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/pkg/logger"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", "Administrator", "admin display name")
	demo := flag.Bool("demo", false, "seed demo inventory data")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -email <email> -password <password> [-demo]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Default().Fatalw("config load failed", "error", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logger.Level, Development: true})
	if err != nil {
		logger.Default().Fatalw("logger init failed", "error", err)
	}
	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("schema migration failed", "error", err)
	}

	txm := postgres.NewTxManager(pool)
	authService := auth.NewService(postgres.NewAuthRepo(txm), auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWT.Secret)))

	user, err := authService.Register(ctx, *email, *name, *password, auth.RoleAdmin)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDuplicate {
			logger.Info(ctx, "admin user already exists", "email", *email)
		} else {
			log.Fatalw("admin creation failed", "error", err)
		}
	} else {
		logger.Info(ctx, "admin user created", "email", user.Email)
	}

	if *demo {
		if err := seedDemo(ctx, txm); err != nil {
			log.Fatalw("demo seed failed", "error", err)
		}
		logger.Info(ctx, "demo data seeded")
	}
}

func seedDemo(ctx context.Context, txm *postgres.TxManager) error {
	itemRepo := postgres.NewInventoryRepo(txm)
	ledgerRepo := postgres.NewLedgerRepo(txm)
	ledgerService := ledger.NewService(ledgerRepo, itemRepo, txm, nil)
	inventoryService := inventory.NewService(itemRepo, txm, ledgerService, ledgerRepo, nil)

	demoItems := []inventory.CreateItemInput{
		{Name: "Arabica Beans 1kg", Category: "coffee", SKU: "COF-ARA-1K", CurrentStock: 40, MinStockLevel: 10, BuyPrice: types.NewMoney(9.50), SellPrice: types.NewMoney(16.00)},
		{Name: "Paper Cups 12oz (50pk)", Category: "supplies", SKU: "SUP-CUP-12", CurrentStock: 120, MinStockLevel: 30, BuyPrice: types.NewMoney(3.20), SellPrice: types.NewMoney(6.00)},
		{Name: "Oat Milk 1L", Category: "dairy", SKU: "DAI-OAT-1L", CurrentStock: 24, MinStockLevel: 12, BuyPrice: types.NewMoney(1.80), SellPrice: types.NewMoney(3.50)},
	}

	for _, input := range demoItems {
		item, err := inventoryService.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("seed item %s: %w", input.SKU, err)
		}

		// A sale so the dashboard has something to aggregate.
		_, err = ledgerService.Record(ctx, ledger.RecordInput{
			ItemID:    item.ID,
			Type:      ledger.TypeStockOut,
			Quantity:  2,
			UnitPrice: item.SellPrice,
		})
		if err != nil {
			return fmt.Errorf("seed sale for %s: %w", input.SKU, err)
		}
	}

	return nil
}
