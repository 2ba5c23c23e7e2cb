package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Currency struct {
	gorm.Model
	Code string `gorm:"uniqueIndex" json:"code"`
	Sign string `json:"sign"`
}

// Stock is immutable reference data seeded at boot. BasePrice and
// Volatility parameterize the price generator: suggested prices fall in
// [BasePrice*(1-Volatility), BasePrice*(1+Volatility)].
type Stock struct {
	gorm.Model
	Ticker     string          `gorm:"uniqueIndex" json:"ticker"`
	Name       string          `json:"name"`
	CurrencyID uint            `json:"currency_id"`
	Currency   Currency        `json:"currency"`
	BasePrice  decimal.Decimal `gorm:"type:numeric" json:"base_price"`
	Volatility float64         `json:"volatility"`
}

type StockPrice struct {
	gorm.Model
	StockID   uint            `gorm:"index" json:"stock_id"`
	Ticker    string          `gorm:"index" json:"ticker"`
	Price     decimal.Decimal `gorm:"type:numeric" json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
