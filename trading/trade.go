// Package trading validates and applies buy/sell orders against the
// account ledger. Each order runs inside a single database transaction;
// a rejected order rolls back without persisting anything.
package trading

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paper-trader/models"
)

const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

type Status string

const (
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
)

// Order is a submitted trade form. Price arrives as a string and is parsed
// into a decimal during validation.
type Order struct {
	Action string `form:"action" json:"action" binding:"required"`
	Amount int    `form:"amount" json:"amount" binding:"required"`
	Price  string `form:"price" json:"price" binding:"required"`
}

// Validate checks the form fields and returns the parsed price.
func (o Order) Validate() (decimal.Decimal, error) {
	if o.Action != ActionBuy && o.Action != ActionSell {
		return decimal.Zero, ErrInvalidAction
	}
	if o.Amount <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	price, err := decimal.NewFromString(o.Price)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, ErrInvalidPrice
	}
	return price, nil
}

// Result is the outcome of an executed order. Err is set on rejection and
// carries the user-visible message; Total is the traded cost or proceeds.
type Result struct {
	Status Status
	Err    error
	Total  decimal.Decimal
}

func rejected(err error) Result {
	return Result{Status: StatusRejected, Err: err}
}

// Execute dispatches the order to Buy or Sell by its declared action.
// The returned error is an infrastructure failure; business rejections
// come back as Result.Err with StatusRejected.
func Execute(db *gorm.DB, account models.Account, stock models.Stock, order Order) (Result, error) {
	price, err := order.Validate()
	if err != nil {
		return rejected(err), nil
	}

	switch order.Action {
	case ActionBuy:
		return Buy(db, account, stock, order.Amount, price)
	default:
		return Sell(db, account, stock, order.Amount, price)
	}
}

// WeightedAverage recomputes the running average buy cost after purchasing
// buyAmount shares at price on top of oldAmount shares at oldAvg.
func WeightedAverage(oldAvg decimal.Decimal, oldAmount int, price decimal.Decimal, buyAmount int) decimal.Decimal {
	oldCost := oldAvg.Mul(decimal.NewFromInt(int64(oldAmount)))
	buyCost := price.Mul(decimal.NewFromInt(int64(buyAmount)))
	return oldCost.Add(buyCost).Div(decimal.NewFromInt(int64(oldAmount + buyAmount)))
}

// Buy purchases amount shares at price, paying from the account's balance
// in the stock's currency. The holding's average cost is recomputed as a
// weighted average over the whole position.
func Buy(db *gorm.DB, account models.Account, stock models.Stock, amount int, price decimal.Decimal) (Result, error) {
	if amount <= 0 {
		return rejected(ErrInvalidAmount), nil
	}
	if !price.IsPositive() {
		return rejected(ErrInvalidPrice), nil
	}

	cost := price.Mul(decimal.NewFromInt(int64(amount)))

	err := db.Transaction(func(tx *gorm.DB) error {
		holding, err := GetOrCreateHolding(tx, account.ID, stock.ID)
		if err != nil {
			return err
		}

		balance, err := GetOrCreateBalance(tx, account.ID, stock.CurrencyID)
		if err != nil {
			return err
		}

		if balance.Amount.LessThan(cost) {
			return fmt.Errorf("insufficient funds in currency %s: %w", stock.Currency.Sign, ErrInsufficientFunds)
		}

		holding.AverageBuyCost = WeightedAverage(holding.AverageBuyCost, holding.Amount, price, amount)
		holding.Amount += amount
		if err := tx.Save(&holding).Error; err != nil {
			return fmt.Errorf("save holding: %w", err)
		}

		balance.Amount = balance.Amount.Sub(cost)
		if err := tx.Save(&balance).Error; err != nil {
			return fmt.Errorf("save balance: %w", err)
		}

		return nil
	})
	if err != nil {
		if IsRejection(err) {
			return rejected(err), nil
		}
		return Result{}, err
	}

	return Result{Status: StatusApplied, Total: cost}, nil
}

// Sell disposes of amount shares at price, crediting the proceeds to the
// account's balance in the stock's currency. Selling the whole position
// deletes the holding row; a partial sell leaves the average cost alone.
func Sell(db *gorm.DB, account models.Account, stock models.Stock, amount int, price decimal.Decimal) (Result, error) {
	if amount <= 0 {
		return rejected(ErrInvalidAmount), nil
	}
	if !price.IsPositive() {
		return rejected(ErrInvalidPrice), nil
	}

	proceeds := price.Mul(decimal.NewFromInt(int64(amount)))

	err := db.Transaction(func(tx *gorm.DB) error {
		holding, err := HoldingOf(tx, account.ID, stock.ID)
		if err != nil {
			if errors.Is(err, ErrNoHolding) {
				return fmt.Errorf("no shares of %s: %w", stock.Ticker, ErrNoHolding)
			}
			return err
		}

		if holding.Amount < amount {
			return fmt.Errorf("insufficient shares of %s: %w", stock.Ticker, ErrInsufficientShares)
		}

		holding.Amount -= amount
		if holding.Amount == 0 {
			// Hard delete: a soft-deleted row would still occupy the
			// (account, stock) unique index and block a later re-buy.
			if err := tx.Unscoped().Delete(&holding).Error; err != nil {
				return fmt.Errorf("delete holding: %w", err)
			}
		} else {
			if err := tx.Save(&holding).Error; err != nil {
				return fmt.Errorf("save holding: %w", err)
			}
		}

		balance, err := GetOrCreateBalance(tx, account.ID, stock.CurrencyID)
		if err != nil {
			return err
		}

		balance.Amount = balance.Amount.Add(proceeds)
		if err := tx.Save(&balance).Error; err != nil {
			return fmt.Errorf("save balance: %w", err)
		}

		return nil
	})
	if err != nil {
		if IsRejection(err) {
			return rejected(err), nil
		}
		return Result{}, err
	}

	return Result{Status: StatusApplied, Total: proceeds}, nil
}
