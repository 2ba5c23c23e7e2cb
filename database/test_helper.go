package database

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-trader/config"
	"paper-trader/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SetupTestDB connects to the test database, migrates the schema and
// installs the handle as the global connection. Tests are skipped when no
// test database is reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("TEST_DB_HOST", "localhost"),
		envOr("TEST_DB_PORT", "5432"),
		envOr("TEST_DB_USER", "trader"),
		envOr("TEST_DB_PASSWORD", "trader"),
		envOr("TEST_DB_NAME", "trader_test"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	config.DB = db
	if err := Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB removes all rows written by a test, children first.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{
		"account_stocks",
		"account_currencies",
		"stock_prices",
		"stocks",
		"currencies",
		"accounts",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: failed to clean up table %s: %v", table, err)
		}
	}
}

// CreateTestCurrency inserts a currency and returns it.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code, sign string) models.Currency {
	t.Helper()

	currency := models.Currency{Code: code, Sign: sign}
	if err := db.Create(&currency).Error; err != nil {
		t.Fatalf("Failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestStock inserts a stock denominated in the currency.
func CreateTestStock(t *testing.T, db *gorm.DB, ticker string, currency models.Currency) models.Stock {
	t.Helper()

	stock := models.Stock{
		Ticker:     ticker,
		Name:       ticker + " test stock",
		CurrencyID: currency.ID,
		Currency:   currency,
		BasePrice:  decimal.NewFromInt(100),
		Volatility: 0.02,
	}
	if err := db.Create(&stock).Error; err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestAccount inserts a user with an account holding the given cash
// balance in the currency.
func CreateTestAccount(t *testing.T, db *gorm.DB, balance string, currency models.Currency) models.Account {
	t.Helper()

	amount, err := decimal.NewFromString(balance)
	if err != nil {
		t.Fatalf("Invalid test balance %q: %v", balance, err)
	}

	user := models.User{Email: fmt.Sprintf("user-%d@test.local", time.Now().UnixNano()), Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	account := models.Account{UserID: user.ID}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	cash := models.AccountCurrency{
		AccountID:  account.ID,
		CurrencyID: currency.ID,
		Amount:     amount,
	}
	if err := db.Create(&cash).Error; err != nil {
		t.Fatalf("Failed to create test balance: %v", err)
	}

	return account
}
