package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountCurrency is a cash balance in one currency. Amount never goes
// negative: buys are rejected before the debit would overdraw it.
type AccountCurrency struct {
	gorm.Model
	AccountID  uint            `gorm:"uniqueIndex:idx_account_currency" json:"account_id"`
	CurrencyID uint            `gorm:"uniqueIndex:idx_account_currency" json:"currency_id"`
	Currency   Currency        `json:"currency"`
	Amount     decimal.Decimal `gorm:"type:numeric" json:"amount"`
}

// AccountStock is a stock holding. A row with Amount == 0 must not
// persist; selling a position down to zero deletes it.
type AccountStock struct {
	gorm.Model
	AccountID      uint            `gorm:"uniqueIndex:idx_account_stock" json:"account_id"`
	StockID        uint            `gorm:"uniqueIndex:idx_account_stock" json:"stock_id"`
	Stock          Stock           `json:"stock"`
	Amount         int             `json:"amount"`
	AverageBuyCost decimal.Decimal `gorm:"type:numeric" json:"average_buy_cost"`
}
