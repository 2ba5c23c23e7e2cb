package handlers

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"paper-trader/config"
	"paper-trader/models"
	"paper-trader/pricing"
)

// PriceUpdate is one tick of the simulated price feed.
type PriceUpdate struct {
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Change    float64         `json:"change"`
	Timestamp time.Time       `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamPrices handles GET /ws/prices: it upgrades to a websocket and
// sends one randomized price update per second for a random catalog
// stock, walking each price from its last sent value.
func StreamPrices(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String("err", err.Error()))
		return
	}
	defer conn.Close()

	var stocks []models.Stock
	if err := config.DB.Find(&stocks).Error; err != nil || len(stocks) == 0 {
		slog.Error("price feed has no stocks to stream")
		return
	}

	prices := make(map[uint]decimal.Decimal, len(stocks))
	for _, stock := range stocks {
		prices[stock.ID] = stock.BasePrice
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stock := stocks[rand.Intn(len(stocks))]

		next, changePct := pricing.Move(prices[stock.ID], stock.Volatility)
		prices[stock.ID] = next

		update := PriceUpdate{
			Ticker:    stock.Ticker,
			Price:     next,
			Change:    changePct,
			Timestamp: time.Now(),
		}

		if err := conn.WriteJSON(update); err != nil {
			slog.Debug("price feed client gone", slog.String("err", err.Error()))
			return
		}
	}
}
