// Package pricing generates simulated stock prices. Prices are random
// walks around each stock's base price and are only ever used as form
// defaults and feed data, never as an authoritative quote.
package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"paper-trader/models"
)

var minPrice = decimal.NewFromFloat(0.01)

// Suggest returns a randomized price for the stock, uniformly drawn from
// [BasePrice*(1-Volatility), BasePrice*(1+Volatility)] and rounded to two
// decimal places. The result is always positive.
func Suggest(stock models.Stock) decimal.Decimal {
	offset := (rand.Float64()*2 - 1) * stock.Volatility
	price := stock.BasePrice.Mul(decimal.NewFromFloat(1 + offset)).Round(2)
	if price.LessThan(minPrice) {
		return minPrice
	}
	return price
}

// Move nudges a previous price by up to ±volatility percent, for the
// streaming feed. Returns the new price and the applied change in percent.
func Move(prev decimal.Decimal, volatility float64) (decimal.Decimal, float64) {
	changePct := (rand.Float64()*2 - 1) * volatility * 100
	next := prev.Mul(decimal.NewFromFloat(1 + changePct/100)).Round(2)
	if next.LessThan(minPrice) {
		next = minPrice
	}
	return next, changePct
}
