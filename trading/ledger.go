package trading

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paper-trader/models"
)

// Ledger row access. Every function takes the handle it should run on so
// buy/sell can pass their open transaction; reads inside a transaction take
// FOR UPDATE locks so concurrent trades on the same rows serialize.
//
// First creation is raced by concurrent first trades on the same pair, so
// the create goes through ON CONFLICT DO NOTHING and the winner's row is
// re-read under lock.

// GetOrCreateHolding returns the account's holding for the stock, creating
// it with zero amount and zero average cost when absent.
func GetOrCreateHolding(tx *gorm.DB, accountID, stockID uint) (models.AccountStock, error) {
	var holding models.AccountStock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.AccountStock{AccountID: accountID, StockID: stockID}).
		First(&holding).Error
	if err == nil {
		return holding, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AccountStock{}, fmt.Errorf("get holding: %w", err)
	}

	holding = models.AccountStock{
		AccountID:      accountID,
		StockID:        stockID,
		Amount:         0,
		AverageBuyCost: decimal.Zero,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&holding).Error; err != nil {
		return models.AccountStock{}, fmt.Errorf("create holding: %w", err)
	}

	// A concurrent first trade may have won the insert; re-read under lock.
	var created models.AccountStock
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.AccountStock{AccountID: accountID, StockID: stockID}).
		First(&created).Error
	if err != nil {
		return models.AccountStock{}, fmt.Errorf("get holding: %w", err)
	}
	return created, nil
}

// GetOrCreateBalance returns the account's balance in the currency,
// creating it with zero amount when absent.
func GetOrCreateBalance(tx *gorm.DB, accountID, currencyID uint) (models.AccountCurrency, error) {
	var balance models.AccountCurrency
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.AccountCurrency{AccountID: accountID, CurrencyID: currencyID}).
		First(&balance).Error
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AccountCurrency{}, fmt.Errorf("get balance: %w", err)
	}

	balance = models.AccountCurrency{
		AccountID:  accountID,
		CurrencyID: currencyID,
		Amount:     decimal.Zero,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&balance).Error; err != nil {
		return models.AccountCurrency{}, fmt.Errorf("create balance: %w", err)
	}

	var created models.AccountCurrency
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.AccountCurrency{AccountID: accountID, CurrencyID: currencyID}).
		First(&created).Error
	if err != nil {
		return models.AccountCurrency{}, fmt.Errorf("get balance: %w", err)
	}
	return created, nil
}

// HoldingOf returns the account's holding for the stock, or ErrNoHolding.
func HoldingOf(tx *gorm.DB, accountID, stockID uint) (models.AccountStock, error) {
	var holding models.AccountStock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.AccountStock{AccountID: accountID, StockID: stockID}).
		First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AccountStock{}, ErrNoHolding
	}
	if err != nil {
		return models.AccountStock{}, fmt.Errorf("get holding: %w", err)
	}
	return holding, nil
}
