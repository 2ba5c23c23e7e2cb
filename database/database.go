// Package database owns schema migration, reference data seeding and the
// periodic price snapshot writes.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"paper-trader/config"
	"paper-trader/models"
	"paper-trader/pricing"
)

const snapshotBatchSize = 100

// Migrate creates or updates the schema for all models.
func Migrate() error {
	return config.DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Currency{},
		&models.Stock{},
		&models.AccountCurrency{},
		&models.AccountStock{},
		&models.StockPrice{},
	)
}

type stockSeed struct {
	ticker     string
	name       string
	currency   string
	basePrice  string
	volatility float64
}

var currencySeeds = []string{"USD", "EUR"}

var stockSeeds = []stockSeed{
	{"AAPL", "Apple Inc.", "USD", "150.00", 0.03},
	{"GOOGL", "Alphabet Inc.", "USD", "140.00", 0.03},
	{"MSFT", "Microsoft Corporation", "USD", "380.00", 0.02},
	{"TSLA", "Tesla, Inc.", "USD", "250.00", 0.05},
	{"AMZN", "Amazon.com, Inc.", "USD", "180.00", 0.03},
	{"SAP", "SAP SE", "EUR", "210.00", 0.02},
	{"ASML", "ASML Holding N.V.", "EUR", "640.00", 0.04},
}

// Seed inserts the tradable stock catalog and its currencies. Existing
// rows are left untouched, so it is safe to run on every boot. Display
// signs come from the go-money currency table.
func Seed() error {
	for _, code := range currencySeeds {
		sign := code
		if cur := money.GetCurrency(code); cur != nil {
			sign = cur.Grapheme
		}

		var currency models.Currency
		err := config.DB.Where(models.Currency{Code: code}).
			Attrs(models.Currency{Sign: sign}).
			FirstOrCreate(&currency).Error
		if err != nil {
			return fmt.Errorf("seed currency %s: %w", code, err)
		}
	}

	for _, seed := range stockSeeds {
		var currency models.Currency
		if err := config.DB.Where(models.Currency{Code: seed.currency}).First(&currency).Error; err != nil {
			return fmt.Errorf("currency %s for stock %s: %w", seed.currency, seed.ticker, err)
		}

		basePrice, err := decimal.NewFromString(seed.basePrice)
		if err != nil {
			return fmt.Errorf("base price for stock %s: %w", seed.ticker, err)
		}

		var stock models.Stock
		err = config.DB.Where(models.Stock{Ticker: seed.ticker}).
			Attrs(models.Stock{
				Name:       seed.name,
				CurrencyID: currency.ID,
				BasePrice:  basePrice,
				Volatility: seed.volatility,
			}).
			FirstOrCreate(&stock).Error
		if err != nil {
			return fmt.Errorf("seed stock %s: %w", seed.ticker, err)
		}
	}

	return nil
}

// SnapshotPrices generates one price per catalog stock and batch-inserts
// the snapshots. Run periodically by the scheduler.
func SnapshotPrices(ctx context.Context) error {
	var stocks []models.Stock
	if err := config.DB.WithContext(ctx).Find(&stocks).Error; err != nil {
		return fmt.Errorf("list stocks: %w", err)
	}

	if len(stocks) == 0 {
		return nil
	}

	now := time.Now()
	snapshots := make([]models.StockPrice, 0, len(stocks))
	for _, stock := range stocks {
		snapshots = append(snapshots, models.StockPrice{
			StockID:   stock.ID,
			Ticker:    stock.Ticker,
			Price:     pricing.Suggest(stock),
			Timestamp: now,
		})
	}

	if err := config.DB.WithContext(ctx).CreateInBatches(snapshots, snapshotBatchSize).Error; err != nil {
		return fmt.Errorf("insert price snapshots: %w", err)
	}

	slog.Debug("price snapshots written", slog.Int("count", len(snapshots)))
	return nil
}
